package engine

// Going-out bonuses.
const (
	GoingOutBonus          = 100
	ConcealedGoingOutBonus = 200
)

// CardPoints sums the point values of the given cards.
func CardPoints(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.PointValue()
	}
	return total
}

// MeldBonuses sums the canasta bonuses of the given melds.
func MeldBonuses(melds []Meld) int {
	total := 0
	for _, m := range melds {
		total += m.Bonus()
	}
	return total
}

// RedThreeBonus returns the red-three adjustment for a team.
//
// With melds, each red three is worth 100, except all four together are
// worth 800. Without melds each counts -100, and all four count -400 — the
// -800 mirror of the bonus case deliberately does not exist in the Pagat
// Classic rules.
func RedThreeBonus(count int, hasMelds bool) int {
	if count == 0 {
		return 0
	}
	if hasMelds {
		if count == 4 {
			return 800
		}
		return count * 100
	}
	return count * -100
}

// OutBonus returns the going-out bonus: 200 concealed, 100 otherwise, 0 when
// the team did not go out.
func OutBonus(wentOut, concealed bool) int {
	if !wentOut {
		return 0
	}
	if concealed {
		return ConcealedGoingOutBonus
	}
	return GoingOutBonus
}

// CalculateHandScore computes one team's score for a finished hand:
// melded-card points, plus canasta bonuses, plus the red-three adjustment,
// plus the going-out bonus, minus the points left in the team's hands.
// Pure; called once per team at hand end.
func CalculateHandScore(meldedCards []Card, melds []Meld, redThreeCount int, handCards []Card, wentOut, concealed bool) int {
	score := CardPoints(meldedCards)
	score += MeldBonuses(melds)
	score += RedThreeBonus(redThreeCount, len(melds) > 0)
	score += OutBonus(wentOut, concealed)
	score -= CardPoints(handCards)
	return score
}
