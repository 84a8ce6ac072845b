package engine

// Meld size limits per Pagat rules.
const (
	MinMeldSize     = 3
	MinMeldNaturals = 2
	MaxMeldWilds    = 3
	CanastaSize     = 7
)

// Canasta bonuses.
const (
	NaturalCanastaBonus = 500
	MixedCanastaBonus   = 300
)

// Meld is a set of same-rank natural cards plus up to three wilds. Melds are
// immutable values: extending one yields a fresh Meld (Extended), and team
// meld lists are updated by replacing the slot, never by appending to a
// shared slice.
type Meld struct {
	Rank     int    `json:"rank"`
	Naturals []Card `json:"naturals"`
	Wilds    []Card `json:"wilds"`
}

// Total returns the number of cards in the meld.
func (m Meld) Total() int { return len(m.Naturals) + len(m.Wilds) }

// Cards returns all cards in the meld, naturals first.
func (m Meld) Cards() []Card {
	out := make([]Card, 0, m.Total())
	out = append(out, m.Naturals...)
	out = append(out, m.Wilds...)
	return out
}

// IsValid validates the meld: at least 3 cards, at least 2 naturals, at most
// 3 wilds, and the rank is meldable. Twos (the wild rank) are never
// meldable; threes only when allowBlackThrees is set, which happens solely
// during the going-out melding step.
func (m Meld) IsValid(allowBlackThrees bool) bool {
	if m.Total() < MinMeldSize {
		return false
	}
	if len(m.Naturals) < MinMeldNaturals {
		return false
	}
	if len(m.Wilds) > MaxMeldWilds {
		return false
	}
	if m.Rank == RankTwo {
		return false
	}
	if m.Rank == RankThree && !allowBlackThrees {
		return false
	}
	return true
}

// PointValue sums the point values of every card in the meld.
func (m Meld) PointValue() int {
	total := 0
	for _, c := range m.Naturals {
		total += c.PointValue()
	}
	for _, c := range m.Wilds {
		total += c.PointValue()
	}
	return total
}

// IsCanasta reports whether the meld has 7 or more cards.
func (m Meld) IsCanasta() bool { return m.Total() >= CanastaSize }

// IsNaturalCanasta reports whether the meld is a canasta with no wilds.
func (m Meld) IsNaturalCanasta() bool { return m.IsCanasta() && len(m.Wilds) == 0 }

// IsMixedCanasta reports whether the meld is a canasta with at least one wild.
func (m Meld) IsMixedCanasta() bool { return m.IsCanasta() && len(m.Wilds) > 0 }

// Bonus returns the canasta bonus: 500 natural, 300 mixed, 0 otherwise.
func (m Meld) Bonus() int {
	switch {
	case m.IsNaturalCanasta():
		return NaturalCanastaBonus
	case m.IsMixedCanasta():
		return MixedCanastaBonus
	default:
		return 0
	}
}

// Extended returns a copy of the meld with the given cards appended. The
// receiver is not modified.
func (m Meld) Extended(naturals, wilds []Card) Meld {
	out := Meld{Rank: m.Rank}
	out.Naturals = make([]Card, 0, len(m.Naturals)+len(naturals))
	out.Naturals = append(out.Naturals, m.Naturals...)
	out.Naturals = append(out.Naturals, naturals...)
	out.Wilds = make([]Card, 0, len(m.Wilds)+len(wilds))
	out.Wilds = append(out.Wilds, m.Wilds...)
	out.Wilds = append(out.Wilds, wilds...)
	return out
}

// clone returns a deep copy of the meld.
func (m Meld) clone() Meld {
	return Meld{
		Rank:     m.Rank,
		Naturals: append([]Card(nil), m.Naturals...),
		Wilds:    append([]Card(nil), m.Wilds...),
	}
}

// InitialMeldMinimum returns the minimum combined point value a team's first
// meld(s) must reach, scaled by the team's cumulative score.
func InitialMeldMinimum(teamScore int) int {
	switch {
	case teamScore < 0:
		return 15
	case teamScore < 1500:
		return 50
	case teamScore < 3000:
		return 90
	default:
		return 120
	}
}

// CanFormInitialMeld reports whether the proposed melds jointly meet the
// initial-meld minimum for a team with the given cumulative score.
func CanFormInitialMeld(melds []Meld, teamScore int) bool {
	if len(melds) == 0 {
		return false
	}
	total := 0
	for _, m := range melds {
		total += m.PointValue()
	}
	return total >= InitialMeldMinimum(teamScore)
}
