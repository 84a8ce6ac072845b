package engine

import "fmt"

// ApplyAction applies one action for the current actor. The action must be
// present in the legal set for the state as it is now; anything else
// returns ErrIllegalAction without applying it. The internal legality query
// can itself finalize a hand (stock exhaustion, a player left with no legal
// move), so callers must re-query the actor and legal set after every call
// rather than replaying stale ids.
func (g *GameState) ApplyAction(id ActionID) error {
	if g.Terminal {
		return fmt.Errorf("%w: game is over", ErrIllegalAction)
	}

	if g.Dealing {
		if int(id) >= len(g.Deck) {
			return fmt.Errorf("%w: chance outcome %d out of range (deck has %d cards)", ErrIllegalAction, id, len(g.Deck))
		}
		g.applyChance(int(id))
		return nil
	}

	for _, a := range g.legalPlayerActions() {
		if a.ID == id {
			g.applyPlayerAction(a)
			return nil
		}
	}
	return fmt.Errorf("%w: action %d not in current legal set", ErrIllegalAction, id)
}

// applyPlayerAction dispatches an already-validated table entry.
func (g *GameState) applyPlayerAction(a Action) {
	switch a.Type {
	case ActDrawStock:
		g.applyDrawStock()
	case ActTakePile:
		g.applyTakePile()
	case ActCreateMeld:
		g.applyCreateMeld(a.Rank, a.Cards)
	case ActAddToMeld:
		g.applyAddToMeld(a.MeldIndex, a.Cards)
	case ActSkipMeld:
		g.Phase = PhaseDiscard
	case ActDiscard:
		g.applyDiscard(a.Cards[0])
	case ActAskPartner:
		g.applyAskPartner()
	case ActAnswerYes:
		g.applyAnswer(true)
	case ActAnswerNo:
		g.applyAnswer(false)
	case ActGoOut:
		g.applyGoOut()
	}
}

// applyDrawStock pops the front of the stock into the hand. A drawn red
// three is filed to the team's pile and replaced by drawing again, chained
// while the stock lasts. Drawing clears the black-three block.
func (g *GameState) applyDrawStock() {
	player := g.CurrentPlayer
	team := TeamOf(player)

	for len(g.Stock) > 0 {
		card := g.Stock[0]
		g.Stock = g.Stock[1:]
		if card.IsRedThree() {
			g.RedThrees[team] = append(g.RedThrees[team], card)
			continue
		}
		g.Hands[player] = append(g.Hands[player], card)
		break
	}

	g.BlackThreeBlock = false
	g.Phase = PhaseMeld
}

// applyTakePile moves the entire discard pile into the hand. Red threes
// arriving from the pile are filed to the team without stock replacement.
func (g *GameState) applyTakePile() {
	player := g.CurrentPlayer
	team := TeamOf(player)

	for _, card := range g.Discard {
		if card.IsRedThree() {
			g.RedThrees[team] = append(g.RedThrees[team], card)
			continue
		}
		g.Hands[player] = append(g.Hands[player], card)
	}
	g.Discard = nil

	g.BlackThreeBlock = false
	g.Phase = PhaseMeld
}

// applyCreateMeld lays down a new meld from the given hand cards and marks
// the team's initial meld made. The phase stays at meld so further meld
// actions can follow in the same turn.
func (g *GameState) applyCreateMeld(rank int, cards []Card) {
	player := g.CurrentPlayer
	team := TeamOf(player)

	meld := Meld{Rank: rank}
	for _, c := range cards {
		if c.IsWild() {
			meld.Wilds = append(meld.Wilds, c)
		} else {
			meld.Naturals = append(meld.Naturals, c)
		}
	}

	g.Melds[team] = append(g.Melds[team], meld)
	g.removeFromHand(player, cards)
	g.InitialMeldMade[team] = true
	g.updateCanastaCount(team)
}

// applyAddToMeld extends an existing team meld by replacing it with an
// extended copy.
func (g *GameState) applyAddToMeld(meldIdx int, cards []Card) {
	player := g.CurrentPlayer
	team := TeamOf(player)

	var naturals, wilds []Card
	for _, c := range cards {
		if c.IsWild() {
			wilds = append(wilds, c)
		} else {
			naturals = append(naturals, c)
		}
	}

	g.Melds[team][meldIdx] = g.Melds[team][meldIdx].Extended(naturals, wilds)
	g.removeFromHand(player, cards)
	g.updateCanastaCount(team)
}

// applyDiscard pushes the card onto the pile, raises the wild-discard and
// black-three flags as appropriate, resets the per-turn going-out flags,
// and passes the turn.
func (g *GameState) applyDiscard(card Card) {
	player := g.CurrentPlayer

	g.removeFromHand(player, []Card{card})
	g.Discard = append(g.Discard, card)

	if card.IsWild() {
		g.WildDiscarded = true
	}
	if card.IsBlackThree() {
		g.BlackThreeBlock = true
	}

	g.Phase = PhaseDraw
	g.CurrentPlayer = (player + 1) % NumPlayers
	g.GoOutApproved = false
	g.AskedThisTurn = false
}

// applyAskPartner hands control to the partner with the query pending. The
// turn itself does not advance; the partner only answers.
func (g *GameState) applyAskPartner() {
	player := g.CurrentPlayer
	g.AskPending = true
	g.Asker = player
	g.AskedThisTurn = true
	g.CurrentPlayer = PartnerOf(player)
}

// applyAnswer records the partner's answer and returns control to the
// asker, same phase, same turn.
func (g *GameState) applyAnswer(approved bool) {
	g.GoOutApproved = approved
	g.AskPending = false
	g.CurrentPlayer = g.Asker
}

// applyGoOut melds every hand card except the chosen discard, empties the
// hand, discards the last card, and finalizes the hand with this player's
// team as winner. Concealment is judged before any of this melding: a team
// with no melds on the table goes out concealed.
func (g *GameState) applyGoOut() {
	player := g.CurrentPlayer
	team := TeamOf(player)
	concealed := len(g.Melds[team]) == 0

	hand := g.Hands[player]
	discard, ok := g.goOutDiscard()
	if !ok && len(hand) > 0 {
		discard = hand[0]
	}

	rest := make([]Card, 0, len(hand))
	taken := false
	for _, c := range hand {
		if !taken && c == discard {
			taken = true
			continue
		}
		rest = append(rest, c)
	}
	g.meldOutCards(rest, team)
	g.Hands[player] = nil
	g.Discard = append(g.Discard, discard)

	g.updateCanastaCount(team)
	g.finalizeHand(team, concealed)
}

// meldOutCards distributes the going-out cards into the team's melds:
// naturals extend their rank's meld or form a new one (black threes as an
// all-natural set), then wilds fill two-natural new melds first and the
// remaining wild room after that.
func (g *GameState) meldOutCards(cards []Card, team int) {
	byRank := make(map[int][]Card)
	var wilds []Card
	for _, c := range cards {
		if c.IsWild() {
			wilds = append(wilds, c)
			continue
		}
		byRank[c.Rank()] = append(byRank[c.Rank()], c)
	}

	// Naturals first: extend in place or open a new meld. Ranks are walked
	// in order so the resulting meld list is deterministic.
	newMeldIdxs := []int{}
	for rank := 0; rank < NumRanks; rank++ {
		rankCards := byRank[rank]
		if len(rankCards) == 0 {
			continue
		}
		placed := false
		for i, m := range g.Melds[team] {
			if m.Rank == rank {
				g.Melds[team][i] = m.Extended(rankCards, nil)
				placed = true
				break
			}
		}
		if !placed {
			g.Melds[team] = append(g.Melds[team], Meld{Rank: rank, Naturals: rankCards})
			newMeldIdxs = append(newMeldIdxs, len(g.Melds[team])-1)
		}
	}

	// Wilds: two-natural new melds need one each to reach three cards.
	for _, idx := range newMeldIdxs {
		m := g.Melds[team][idx]
		if m.Rank != RankThree && m.Total() < MinMeldSize && len(wilds) > 0 {
			g.Melds[team][idx] = m.Extended(nil, wilds[:1])
			wilds = wilds[1:]
		}
	}
	for i := 0; i < len(g.Melds[team]) && len(wilds) > 0; i++ {
		m := g.Melds[team][i]
		if m.Rank == RankThree {
			continue
		}
		room := MaxMeldWilds - len(m.Wilds)
		if room <= 0 {
			continue
		}
		if room > len(wilds) {
			room = len(wilds)
		}
		g.Melds[team][i] = m.Extended(nil, wilds[:room])
		wilds = wilds[room:]
	}
}
