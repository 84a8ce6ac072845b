package engine

// finalizeHand scores the finished hand for both teams, banks the scores,
// and either ends the game (a team reached the target) or starts the next
// hand. winningTeam is -1 when the hand ended by stock exhaustion.
func (g *GameState) finalizeHand(winningTeam int, concealed bool) {
	for t := 0; t < NumTeams; t++ {
		var melded []Card
		for _, m := range g.Melds[t] {
			melded = append(melded, m.Cards()...)
		}

		var handCards []Card
		handCards = append(handCards, g.Hands[t]...)
		handCards = append(handCards, g.Hands[t+2]...)

		wentOut := winningTeam >= 0 && t == winningTeam
		score := CalculateHandScore(
			melded,
			g.Melds[t],
			len(g.RedThrees[t]),
			handCards,
			wentOut,
			wentOut && concealed,
		)
		g.HandScores[t] = score
		g.TeamScores[t] += score
	}

	if g.TeamScores[0] < g.Rules.TargetScore && g.TeamScores[1] < g.Rules.TargetScore {
		g.startNewHand()
		return
	}

	// A team crossed the target: the higher cumulative score wins. Ties go
	// to the team that went out, or to team 0 when the hand ended with no
	// winner.
	switch {
	case g.TeamScores[0] > g.TeamScores[1]:
		g.WinningTeam = 0
	case g.TeamScores[1] > g.TeamScores[0]:
		g.WinningTeam = 1
	case winningTeam >= 0:
		g.WinningTeam = winningTeam
	default:
		g.WinningTeam = 0
	}
	g.Terminal = true
}
