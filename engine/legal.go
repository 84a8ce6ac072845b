package engine

// ChanceOutcome is one legal chance action (an index into the remaining
// deck) and its probability. Outcomes are uniform; probabilities sum to 1.
type ChanceOutcome struct {
	Action ActionID
	Prob   float64
}

// ChanceOutcomes returns the dealing outcomes for the chance actor, or nil
// when it is not the chance actor's turn.
func (g *GameState) ChanceOutcomes() []ChanceOutcome {
	if !g.IsChanceNode() || len(g.Deck) == 0 {
		return nil
	}
	prob := 1.0 / float64(len(g.Deck))
	outcomes := make([]ChanceOutcome, len(g.Deck))
	for i := range g.Deck {
		outcomes[i] = ChanceOutcome{Action: ActionID(i), Prob: prob}
	}
	return outcomes
}

// LegalActions returns the wire ids of every legal action for the current
// actor. For the chance actor these are indices into the remaining deck.
//
// Querying legal actions can finalize the hand: when the stock is exhausted
// and the pile cannot be taken, the hand ends immediately with no winner,
// which may start a new hand or end the game. Callers must therefore
// re-check the current actor after every call, per the driver contract.
func (g *GameState) LegalActions() []ActionID {
	if g.Terminal {
		return nil
	}
	if g.Dealing {
		ids := make([]ActionID, len(g.Deck))
		for i := range ids {
			ids[i] = ActionID(i)
		}
		return ids
	}
	table := g.legalPlayerActions()
	ids := make([]ActionID, len(table))
	for i, a := range table {
		ids[i] = a.ID
	}
	return ids
}

// LegalActionTable returns the current player's legal actions as resolved
// tagged values. Same finalization caveat as LegalActions.
func (g *GameState) LegalActionTable() []Action {
	if g.Terminal || g.Dealing {
		return nil
	}
	return g.legalPlayerActions()
}

// legalPlayerActions builds the explicit action table for the current
// player. The table is rebuilt on every query; each entry carries the
// concrete cards it consumes, so applying an action never re-derives card
// choices from an id.
func (g *GameState) legalPlayerActions() []Action {
	if g.AskPending {
		return []Action{
			{ID: ActionAnswerYes, Type: ActAnswerYes},
			{ID: ActionAnswerNo, Type: ActAnswerNo},
		}
	}

	switch g.Phase {
	case PhaseDraw:
		var actions []Action
		if len(g.Stock) > 0 {
			actions = append(actions, Action{ID: ActionDrawStock, Type: ActDrawStock})
		}
		if g.canTakePile() {
			actions = append(actions, Action{ID: ActionTakePile, Type: ActTakePile})
		}
		if len(actions) == 0 {
			// Stock exhausted and the pile is untakeable: the hand ends
			// with no winner.
			g.finalizeHand(-1, false)
			return nil
		}
		return actions

	case PhaseMeld:
		actions := []Action{{ID: ActionSkipMeld, Type: ActSkipMeld}}
		actions = append(actions, g.createMeldActions()...)
		actions = append(actions, g.addToMeldActions()...)
		if g.canAskPartner() {
			actions = append(actions, Action{ID: ActionAskPartner, Type: ActAskPartner})
		}
		return actions

	case PhaseDiscard:
		player := g.CurrentPlayer
		if len(g.Hands[player]) == 0 {
			// Every card was melded without a discard left; treat it as the
			// team going out here.
			g.finalizeHand(TeamOf(player), false)
			return nil
		}
		actions := make([]Action, 0, len(g.Hands[player])+1)
		for _, c := range g.Hands[player] {
			actions = append(actions, Action{
				ID:    EncodeDiscard(c),
				Type:  ActDiscard,
				Cards: []Card{c},
			})
		}
		if g.canGoOut() {
			actions = append(actions, Action{ID: ActionGoOut, Type: ActGoOut})
		}
		return actions
	}
	return nil
}

// pileFrozen reports whether the discard pile is frozen for the current
// player's team: the team has no initial meld yet, a wild has been
// discarded this hand, or a wild sits anywhere in the pile.
func (g *GameState) pileFrozen() bool {
	if !g.InitialMeldMade[TeamOf(g.CurrentPlayer)] {
		return true
	}
	if g.WildDiscarded {
		return true
	}
	for _, c := range g.Discard {
		if c.IsWild() {
			return true
		}
	}
	return false
}

// canTakePile reports whether the current player may take the discard pile.
// A frozen pile needs two natural cards matching the top card's rank; an
// unfrozen pile needs two naturals, or one natural plus an existing team
// meld of that rank. A black three on top, or a black three discarded by
// the previous player, blocks the take outright.
func (g *GameState) canTakePile() bool {
	top, ok := g.DiscardTop()
	if !ok {
		return false
	}
	if g.BlackThreeBlock || top.IsBlackThree() {
		return false
	}

	player := g.CurrentPlayer
	team := TeamOf(player)
	topRank := top.Rank()

	matching := 0
	for _, c := range g.Hands[player] {
		if c.IsNatural() && c.Rank() == topRank {
			matching++
		}
	}

	if g.pileFrozen() {
		return matching >= 2
	}
	if matching >= 2 {
		return true
	}
	return matching >= 1 && g.teamHasMeldOfRank(team, topRank)
}

// handSplit returns the current player's natural cards of the given rank
// and all wild cards, each in hand order. A negative rank returns only the
// wilds.
func (g *GameState) handSplit(rank int) (naturals, wilds []Card) {
	for _, c := range g.Hands[g.CurrentPlayer] {
		if c.IsWild() {
			wilds = append(wilds, c)
		} else if c.Rank() == rank {
			naturals = append(naturals, c)
		}
	}
	return naturals, wilds
}

// createMeldActions enumerates every new meld the current player can lay
// down: for each meldable rank, every prefix combination of matching
// naturals and held wilds that forms a valid, team-rank-unique meld and —
// if the team has not melded yet — meets the initial-meld minimum.
func (g *GameState) createMeldActions() []Action {
	team := TeamOf(g.CurrentPlayer)
	var actions []Action

	for rank := 0; rank < NumRanks; rank++ {
		if rank == RankTwo || rank == RankThree {
			continue // twos are wild, threes are never meldable in play
		}
		naturals, wilds := g.handSplit(rank)
		if len(naturals) < MinMeldNaturals {
			continue
		}
		if g.teamHasMeldOfRank(team, rank) {
			continue
		}
		maxWilds := len(wilds)
		if maxWilds > MaxMeldWilds {
			maxWilds = MaxMeldWilds
		}
		for n := MinMeldNaturals; n <= len(naturals); n++ {
			for w := 0; w <= maxWilds; w++ {
				if n+w < MinMeldSize {
					continue
				}
				meld := Meld{Rank: rank, Naturals: naturals[:n], Wilds: wilds[:w]}
				if !meld.IsValid(false) {
					continue
				}
				if !g.InitialMeldMade[team] && !CanFormInitialMeld([]Meld{meld}, g.TeamScores[team]) {
					continue
				}
				id := EncodeCreateMeld(rank, n, w)
				if id > ActionCreateMeldEnd {
					continue
				}
				cards := make([]Card, 0, n+w)
				cards = append(cards, naturals[:n]...)
				cards = append(cards, wilds[:w]...)
				actions = append(actions, Action{
					ID:    id,
					Type:  ActCreateMeld,
					Rank:  rank,
					Cards: cards,
				})
			}
		}
	}
	return actions
}

// addToMeldActions enumerates every legal extension of the team's existing
// melds: natural-only, wild-only, and mixed prefix combinations that keep
// the extended meld valid. Combinations whose combo code does not fit the
// meld's id slot are not representable and are skipped.
func (g *GameState) addToMeldActions() []Action {
	team := TeamOf(g.CurrentPlayer)
	var actions []Action

	for meldIdx, meld := range g.Melds[team] {
		naturals, wilds := g.handSplit(meld.Rank)
		wildRoom := MaxMeldWilds - len(meld.Wilds)
		if wildRoom > len(wilds) {
			wildRoom = len(wilds)
		}
		for n := 0; n <= len(naturals); n++ {
			for w := 0; w <= wildRoom; w++ {
				if n+w == 0 {
					continue
				}
				if !meld.Extended(naturals[:n], wilds[:w]).IsValid(false) {
					continue
				}
				id, ok := EncodeAddToMeld(meldIdx, n, w)
				if !ok {
					continue
				}
				cards := make([]Card, 0, n+w)
				cards = append(cards, naturals[:n]...)
				cards = append(cards, wilds[:w]...)
				actions = append(actions, Action{
					ID:        id,
					Type:      ActAddToMeld,
					MeldIndex: meldIdx,
					Cards:     cards,
				})
			}
		}
	}
	return actions
}

// canAskPartner reports whether the current player may ask their partner
// for permission to go out: meld phase, not already asked this turn, no
// query pending, at least one team canasta, and a hand that could be melded
// down to a single discard.
func (g *GameState) canAskPartner() bool {
	if g.Phase != PhaseMeld || g.AskedThisTurn || g.AskPending {
		return false
	}
	team := TeamOf(g.CurrentPlayer)
	if g.Canastas[team] < 1 {
		return false
	}
	return g.canMeldAllButOne()
}

// canGoOut reports whether the current player may go out: at least one team
// canasta, a hand meldable down to one discard, and either a concealed hand
// (no prior team melds) or the partner's standing approval.
func (g *GameState) canGoOut() bool {
	team := TeamOf(g.CurrentPlayer)
	if g.Canastas[team] < 1 {
		return false
	}
	if !g.canMeldAllButOne() {
		return false
	}
	if len(g.Melds[team]) == 0 {
		return true // concealed: no permission needed
	}
	return g.GoOutApproved
}

// canMeldAllButOne reports whether some choice of a single discard leaves
// the rest of the current player's hand fully meldable.
func (g *GameState) canMeldAllButOne() bool {
	_, ok := g.goOutDiscard()
	return ok
}

// goOutDiscard picks the discard for going out: the first hand card whose
// removal leaves every remaining card assignable to an existing or newly
// formable meld.
func (g *GameState) goOutDiscard() (Card, bool) {
	player := g.CurrentPlayer
	team := TeamOf(player)
	hand := g.Hands[player]
	for i, candidate := range hand {
		rest := make([]Card, 0, len(hand)-1)
		rest = append(rest, hand[:i]...)
		rest = append(rest, hand[i+1:]...)
		if g.canMeldAllCards(rest, team) {
			return candidate, true
		}
	}
	return 0, false
}

// canMeldAllCards reports whether every given card can be placed into the
// team's melds: naturals join an existing meld of their rank or form a new
// meld from at least two copies, black threes form an all-natural set of at
// least three (the going-out exception), and wilds fit under the 3-wild cap
// across existing and newly formed melds, with every two-natural new meld
// claiming the wild it needs to reach three cards.
func (g *GameState) canMeldAllCards(cards []Card, team int) bool {
	byRank := make(map[int][]Card)
	wildCount := 0
	for _, c := range cards {
		if c.IsWild() {
			wildCount++
			continue
		}
		r := c.Rank()
		byRank[r] = append(byRank[r], c)
	}

	wildCapacity := 0
	for _, m := range g.Melds[team] {
		wildCapacity += MaxMeldWilds - len(m.Wilds)
	}

	wildDemand := 0
	for rank, rankCards := range byRank {
		if rank == RankThree {
			// Black threes: never extendable, never wild-padded.
			if len(rankCards) < MinMeldSize {
				return false
			}
			continue
		}
		if g.teamHasMeldOfRank(team, rank) {
			continue
		}
		if len(rankCards) < MinMeldNaturals {
			return false
		}
		if len(rankCards) == MinMeldNaturals {
			wildDemand++ // two naturals alone are short of a meld
		}
		wildCapacity += MaxMeldWilds
	}

	return wildCount >= wildDemand && wildCount <= wildCapacity
}
