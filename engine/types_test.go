package engine

import (
	"errors"
	"testing"
)

// TestCardRankSuit spot-checks the id → (rank, suit) mapping across both
// decks and the jokers.
func TestCardRankSuit(t *testing.T) {
	cases := []struct {
		id   int
		rank int
		suit int
	}{
		{0, RankAce, SuitClubs},
		{12, RankKing, SuitClubs},
		{13, RankAce, SuitDiamonds},
		{25, RankKing, SuitDiamonds},
		{26, RankAce, SuitHearts},
		{39, RankAce, SuitSpades},
		{51, RankKing, SuitSpades},
		{52, RankAce, SuitClubs},  // second deck wraps
		{103, RankKing, SuitSpades},
		{104, RankNone, SuitNone},
		{107, RankNone, SuitNone},
	}
	for _, tc := range cases {
		c := Card(tc.id)
		if c.Rank() != tc.rank {
			t.Errorf("card %d: rank = %d, want %d", tc.id, c.Rank(), tc.rank)
		}
		if c.Suit() != tc.suit {
			t.Errorf("card %d: suit = %d, want %d", tc.id, c.Suit(), tc.suit)
		}
	}
}

// TestNewCardRejectsOutOfRange verifies the ErrInvalidCard boundary.
func TestNewCardRejectsOutOfRange(t *testing.T) {
	for _, id := range []int{-1, 108, 500} {
		if _, err := NewCard(id); !errors.Is(err, ErrInvalidCard) {
			t.Errorf("NewCard(%d): err = %v, want ErrInvalidCard", id, err)
		}
	}
	if c, err := NewCard(107); err != nil || c != 107 {
		t.Errorf("NewCard(107) = %v, %v", c, err)
	}
}

// TestWildAndThreePredicates checks wild, joker, and three classification.
func TestWildAndThreePredicates(t *testing.T) {
	// Card 1 is the 2 of clubs; card 53 the 2 of clubs, second deck.
	for _, id := range []int{1, 14, 27, 40, 53, 104, 107} {
		if !Card(id).IsWild() {
			t.Errorf("card %d should be wild", id)
		}
	}
	// Red threes: 3 of diamonds (15), 3 of hearts (28), and second deck.
	for _, id := range []int{15, 28, 67, 80} {
		if !Card(id).IsRedThree() {
			t.Errorf("card %d should be a red three", id)
		}
		if Card(id).IsBlackThree() {
			t.Errorf("card %d should not be a black three", id)
		}
	}
	// Black threes: 3 of clubs (2), 3 of spades (41), and second deck.
	for _, id := range []int{2, 41, 54, 93} {
		if !Card(id).IsBlackThree() {
			t.Errorf("card %d should be a black three", id)
		}
	}
	if Card(104).IsRedThree() || Card(104).IsBlackThree() {
		t.Error("jokers are neither red nor black threes")
	}
}

// TestPointValues checks the Pagat point table.
func TestPointValues(t *testing.T) {
	cases := []struct {
		id    int
		value int
	}{
		{104, 50}, // joker
		{1, 20},   // two
		{0, 20},   // ace
		{7, 10},   // eight
		{12, 10},  // king
		{2, 5},    // three
		{6, 5},    // seven
	}
	for _, tc := range cases {
		if got := Card(tc.id).PointValue(); got != tc.value {
			t.Errorf("card %d: points = %d, want %d", tc.id, got, tc.value)
		}
	}
}

// TestCardsOfRank verifies all 8 copies of a rank are returned.
func TestCardsOfRank(t *testing.T) {
	cards, err := CardsOfRank(RankAce)
	if err != nil {
		t.Fatalf("CardsOfRank: %v", err)
	}
	if len(cards) != 8 {
		t.Fatalf("got %d cards, want 8", len(cards))
	}
	for _, c := range cards {
		if c.Rank() != RankAce {
			t.Errorf("card %d has rank %d, want ace", c, c.Rank())
		}
	}
	if _, err := CardsOfRank(13); !errors.Is(err, ErrInvalidCard) {
		t.Errorf("CardsOfRank(13): err = %v, want ErrInvalidCard", err)
	}
}

// TestCreateMeldRoundTrip: encoding then decoding a CreateMeld id yields
// the same id for every rank and representable card count.
func TestCreateMeldRoundTrip(t *testing.T) {
	for rank := 0; rank < NumRanks; rank++ {
		for n := 2; n <= 8; n++ {
			for w := 0; w <= 3; w++ {
				id := EncodeCreateMeld(rank, n, w)
				r2, n2, w2 := DecodeCreateMeld(id)
				if r2 != rank || n2 != n || w2 != w {
					t.Fatalf("round trip (%d,%d,%d) → %d → (%d,%d,%d)", rank, n, w, id, r2, n2, w2)
				}
				if EncodeCreateMeld(r2, n2, w2) != id {
					t.Fatalf("re-encode of %d differs", id)
				}
			}
		}
	}
}

// TestAddToMeldRoundTrip covers natural-only, wild-only, and mixed combos
// for meld indices 0-10.
func TestAddToMeldRoundTrip(t *testing.T) {
	for meldIdx := 0; meldIdx <= 10; meldIdx++ {
		for n := 0; n <= 8; n++ {
			for w := 0; w <= 3; w++ {
				if n+w == 0 {
					continue
				}
				id, ok := EncodeAddToMeld(meldIdx, n, w)
				if !ok {
					continue // combo does not fit its slot
				}
				m2, n2, w2 := DecodeAddToMeld(id)
				if m2 != meldIdx || n2 != n || w2 != w {
					t.Fatalf("round trip (%d,%d,%d) → %d → (%d,%d,%d)", meldIdx, n, w, id, m2, n2, w2)
				}
				id2, ok2 := EncodeAddToMeld(m2, n2, w2)
				if !ok2 || id2 != id {
					t.Fatalf("re-encode of %d differs: %d", id, id2)
				}
			}
		}
	}
}

// TestAddToMeldOverflowRejected: combos whose code would spill into the
// next meld's slot must be unrepresentable, not aliased.
func TestAddToMeldOverflowRejected(t *testing.T) {
	// 8 naturals + 3 wilds → mixed code 20+8*4+3 = 55 ≥ 50.
	if _, ok := EncodeAddToMeld(0, 8, 3); ok {
		t.Error("expected overflow combo to be rejected")
	}
}

// TestDiscardEncoding covers the discard id range endpoints.
func TestDiscardEncoding(t *testing.T) {
	if EncodeDiscard(0) != ActionDiscardStart {
		t.Error("discard of card 0 should be ActionDiscardStart")
	}
	if EncodeDiscard(107) != ActionDiscardEnd {
		t.Error("discard of card 107 should be ActionDiscardEnd")
	}
	if DecodeDiscard(EncodeDiscard(42)) != 42 {
		t.Error("discard round trip failed")
	}
}
