package engine

import "fmt"

// ActionString renders an action id for the given actor as a human-readable
// string. Intended for logging and debugging only; the wire id is the
// canonical form.
func ActionString(player int, id ActionID) string {
	if player == ChancePlayerID {
		return fmt.Sprintf("Deal card %d", id)
	}

	switch {
	case id == ActionDrawStock:
		return "Draw from stock"
	case id == ActionTakePile:
		return "Take discard pile"
	case id == ActionSkipMeld:
		return "Skip meld"
	case id >= ActionCreateMeldStart && id <= ActionCreateMeldEnd:
		rank, n, w := DecodeCreateMeld(id)
		return fmt.Sprintf("Create meld of %ss (%d naturals, %d wilds)", RankName(rank), n, w)
	case id >= ActionAddToMeldStart && id <= ActionAddToMeldEnd:
		meldIdx, n, w := DecodeAddToMeld(id)
		return fmt.Sprintf("Add %d naturals and %d wilds to meld %d", n, w, meldIdx)
	case id >= ActionDiscardStart && id <= ActionDiscardEnd:
		return "Discard " + DecodeDiscard(id).String()
	case id == ActionAskPartner:
		return "Ask partner: may I go out?"
	case id == ActionAnswerYes:
		return "Answer: yes, go out"
	case id == ActionAnswerNo:
		return "Answer: no, don't go out"
	case id == ActionGoOut:
		return "Go out"
	}
	return fmt.Sprintf("Action %d", id)
}

// String summarizes the game state for logs.
func (g *GameState) String() string {
	if g.Terminal {
		return fmt.Sprintf("terminal: scores %d-%d, winner team %d", g.TeamScores[0], g.TeamScores[1], g.WinningTeam)
	}
	if g.Dealing {
		return fmt.Sprintf("dealing: %d/%d cards dealt", g.CardsDealt, NumPlayers*g.Rules.HandSize)
	}
	return fmt.Sprintf("hand %d, player %d, phase %s, stock %d, pile %d",
		g.HandNumber, g.CurrentPlayer, g.Phase, len(g.Stock), len(g.Discard))
}
