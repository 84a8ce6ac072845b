package engine

import "testing"

// TestNewDeckComposition: 108 distinct ids, 8 of each rank, 4 jokers.
func TestNewDeckComposition(t *testing.T) {
	deck := NewDeck()
	if len(deck) != NumCards {
		t.Fatalf("deck has %d cards, want %d", len(deck), NumCards)
	}
	seen := make(map[Card]bool)
	jokers := 0
	rankCounts := make(map[int]int)
	for _, c := range deck {
		if seen[c] {
			t.Fatalf("duplicate card %d", c)
		}
		seen[c] = true
		if c.IsJoker() {
			jokers++
			continue
		}
		rankCounts[c.Rank()]++
	}
	if jokers != 4 {
		t.Errorf("jokers = %d, want 4", jokers)
	}
	for rank := 0; rank < NumRanks; rank++ {
		if rankCounts[rank] != 8 {
			t.Errorf("rank %s: %d cards, want 8", RankName(rank), rankCounts[rank])
		}
	}
}

// TestShuffleDeterministic: the same seed yields the same permutation, and
// a different seed a different one.
func TestShuffleDeterministic(t *testing.T) {
	a, b, c := NewDeck(), NewDeck(), NewDeck()
	Shuffle(a, 42)
	Shuffle(b, 42)
	Shuffle(c, 43)

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if !same {
		t.Error("seed 42 shuffles differ")
	}
	diff := false
	for i := range a {
		if a[i] != c[i] {
			diff = true
			break
		}
	}
	if !diff {
		t.Error("seeds 42 and 43 produced the same permutation")
	}
}

// TestDealHandsSeed42: after replacement every hand holds exactly 11 cards
// with no red threes, and the deal conserves all 108 cards.
func TestDealHandsSeed42(t *testing.T) {
	deck := NewDeck()
	Shuffle(deck, 42)
	hands, stock, upcard, redThrees := DealHands(deck, 11)

	total := 1 + len(stock) // upcard
	for p := 0; p < NumPlayers; p++ {
		if len(hands[p]) != 11 {
			t.Errorf("player %d hand = %d cards, want 11", p, len(hands[p]))
		}
		for _, c := range hands[p] {
			if c.IsRedThree() {
				t.Errorf("player %d still holds red three %v", p, c)
			}
		}
		total += len(hands[p])
	}
	redCount := len(redThrees[0]) + len(redThrees[1])
	total += redCount
	if total != NumCards {
		t.Fatalf("deal accounts for %d cards, want %d", total, NumCards)
	}
	// One extra card left the deck per filed red three.
	if want := NumCards - NumPlayers*11 - redCount - 1; len(stock) != want {
		t.Errorf("stock = %d cards, want %d", len(stock), want)
	}
	if !upcard.Valid() {
		t.Errorf("invalid upcard %d", upcard)
	}
}

// TestDealHandsMatchesChanceActions: dealing through the state machine with
// the chance actor always picking outcome 0 reproduces DealHands exactly.
func TestDealHandsMatchesChanceActions(t *testing.T) {
	deck := NewDeck()
	Shuffle(deck, 7)

	g := NewGameState(DefaultRules())
	g.Deck = append([]Card(nil), deck...)
	for g.IsChanceNode() {
		if err := g.ApplyAction(0); err != nil {
			t.Fatalf("chance action: %v", err)
		}
	}

	hands, stock, upcard, redThrees := DealHands(deck, g.Rules.HandSize)
	for p := 0; p < NumPlayers; p++ {
		if len(g.Hands[p]) != len(hands[p]) {
			t.Fatalf("player %d: state hand %d cards, DealHands %d", p, len(g.Hands[p]), len(hands[p]))
		}
		for i := range hands[p] {
			if g.Hands[p][i] != hands[p][i] {
				t.Fatalf("player %d card %d: state %v, DealHands %v", p, i, g.Hands[p][i], hands[p][i])
			}
		}
	}
	if len(g.Stock) != len(stock) {
		t.Fatalf("stock: state %d, DealHands %d", len(g.Stock), len(stock))
	}
	for i := range stock {
		if g.Stock[i] != stock[i] {
			t.Fatalf("stock card %d differs", i)
		}
	}
	if top, ok := g.DiscardTop(); !ok || top != upcard {
		t.Errorf("upcard: state %v, DealHands %v", top, upcard)
	}
	for team := 0; team < NumTeams; team++ {
		if len(g.RedThrees[team]) != len(redThrees[team]) {
			t.Errorf("team %d red threes: state %d, DealHands %d", team, len(g.RedThrees[team]), len(redThrees[team]))
		}
	}
}
