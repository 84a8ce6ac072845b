package engine

import "testing"

// mustCards converts raw ids to Cards, failing the test on a bad id.
func mustCards(t *testing.T, ids ...int) []Card {
	t.Helper()
	out := make([]Card, len(ids))
	for i, id := range ids {
		c, err := NewCard(id)
		if err != nil {
			t.Fatalf("bad card id %d: %v", id, err)
		}
		out[i] = c
	}
	return out
}

// TestMeldValidity covers the size, natural, wild, and rank constraints.
func TestMeldValidity(t *testing.T) {
	aces := mustCards(t, 0, 13, 26, 39, 52, 65, 78)
	joker := Card(104)
	two := Card(1)

	cases := []struct {
		name  string
		meld  Meld
		valid bool
	}{
		{"three naturals", Meld{Rank: RankAce, Naturals: aces[:3]}, true},
		{"two naturals one wild", Meld{Rank: RankAce, Naturals: aces[:2], Wilds: []Card{joker}}, true},
		{"too small", Meld{Rank: RankAce, Naturals: aces[:2]}, false},
		{"one natural two wilds", Meld{Rank: RankAce, Naturals: aces[:1], Wilds: []Card{joker, two}}, false},
		{"four wilds", Meld{Rank: RankAce, Naturals: aces[:3], Wilds: []Card{joker, two, Card(105), Card(14)}}, false},
		{"three wilds ok", Meld{Rank: RankAce, Naturals: aces[:3], Wilds: []Card{joker, two, Card(105)}}, true},
		{"rank two never meldable", Meld{Rank: RankTwo, Naturals: mustCards(t, 1, 14, 27)}, false},
		{"rank three not meldable normally", Meld{Rank: RankThree, Naturals: mustCards(t, 2, 41, 54)}, false},
	}
	for _, tc := range cases {
		if got := tc.meld.IsValid(false); got != tc.valid {
			t.Errorf("%s: IsValid = %v, want %v", tc.name, got, tc.valid)
		}
	}

	// Black threes become meldable only during go-out, and only pure.
	threes := Meld{Rank: RankThree, Naturals: mustCards(t, 2, 41, 54)}
	if !threes.IsValid(true) {
		t.Error("pure black threes should be meldable at go-out")
	}
}

// TestCanastaBoundary: six cards is never a canasta, seven always is, and
// the bonus depends on wild content.
func TestCanastaBoundary(t *testing.T) {
	kings := mustCards(t, 12, 25, 38, 51, 64, 77, 90)

	six := Meld{Rank: RankKing, Naturals: kings[:6]}
	if six.IsCanasta() {
		t.Error("six cards must not be a canasta")
	}
	if six.Bonus() != 0 {
		t.Errorf("six-card bonus = %d, want 0", six.Bonus())
	}

	natural := Meld{Rank: RankKing, Naturals: kings}
	if !natural.IsNaturalCanasta() || natural.Bonus() != NaturalCanastaBonus {
		t.Errorf("seven naturals: bonus = %d, want %d", natural.Bonus(), NaturalCanastaBonus)
	}

	mixed := Meld{Rank: RankKing, Naturals: kings[:6], Wilds: []Card{104}}
	if !mixed.IsMixedCanasta() || mixed.Bonus() != MixedCanastaBonus {
		t.Errorf("mixed canasta: bonus = %d, want %d", mixed.Bonus(), MixedCanastaBonus)
	}
}

// TestMeldPointValue sums card values including wilds.
func TestMeldPointValue(t *testing.T) {
	// Two aces (20 each) plus a joker (50) = 90.
	m := Meld{Rank: RankAce, Naturals: mustCards(t, 0, 13), Wilds: []Card{104}}
	if got := m.PointValue(); got != 90 {
		t.Errorf("PointValue = %d, want 90", got)
	}
}

// TestExtendedIsCopy: extending a meld must not touch the original.
func TestExtendedIsCopy(t *testing.T) {
	base := Meld{Rank: RankAce, Naturals: mustCards(t, 0, 13, 26)}
	grown := base.Extended(mustCards(t, 39), []Card{104})
	if base.Total() != 3 {
		t.Fatalf("base mutated: total = %d", base.Total())
	}
	if grown.Total() != 5 || len(grown.Wilds) != 1 {
		t.Fatalf("grown = %d cards, %d wilds; want 5, 1", grown.Total(), len(grown.Wilds))
	}
	// Appending through the copy's slices must not alias the base.
	grown.Naturals[0] = 99
	if base.Naturals[0] == 99 {
		t.Error("Extended shares backing array with receiver")
	}
}

// TestInitialMeldMinimum covers the cumulative-score thresholds.
func TestInitialMeldMinimum(t *testing.T) {
	cases := []struct {
		score int
		min   int
	}{
		{-500, 15},
		{-1, 15},
		{0, 50},
		{1499, 50},
		{1500, 90},
		{2999, 90},
		{3000, 120},
		{9000, 120},
	}
	for _, tc := range cases {
		if got := InitialMeldMinimum(tc.score); got != tc.min {
			t.Errorf("InitialMeldMinimum(%d) = %d, want %d", tc.score, got, tc.min)
		}
	}
}

// TestCanFormInitialMeld: combined meld points must reach the threshold.
func TestCanFormInitialMeld(t *testing.T) {
	aces := Meld{Rank: RankAce, Naturals: mustCards(t, 0, 13, 26)} // 60 points
	fives := Meld{Rank: RankFive, Naturals: mustCards(t, 4, 17, 30)} // 15 points

	if !CanFormInitialMeld([]Meld{aces}, 0) {
		t.Error("60 points should satisfy the 50 minimum")
	}
	if CanFormInitialMeld([]Meld{fives}, 0) {
		t.Error("15 points should fail the 50 minimum")
	}
	if !CanFormInitialMeld([]Meld{fives}, -100) {
		t.Error("15 points should satisfy the 15 minimum for a negative score")
	}
	if CanFormInitialMeld([]Meld{fives, aces}, 1500) {
		t.Error("75 combined points should fail the 90 minimum")
	}
	if CanFormInitialMeld(nil, 0) {
		t.Error("no melds can never satisfy the minimum")
	}
}
