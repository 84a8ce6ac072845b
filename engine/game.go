// Package engine implements four-player partnership Canasta (Pagat Classic
// rules) as a deterministic state machine behind a legal-action interface.
//
// The engine never samples randomness itself: dealing is an explicit chance
// actor whose legal actions are indices into the remaining deck, each with a
// uniform reported probability. A driver — random rollout, search, or a
// game service — queries legal actions, picks one, and applies it, exactly
// as for player actions.
package engine

// Actor ids returned by CurrentPlayerID for non-player actors.
const (
	ChancePlayerID   = -1
	TerminalPlayerID = -4
)

// TurnPhase is the stage of the current player's turn.
type TurnPhase uint8

const (
	PhaseDraw TurnPhase = iota
	PhaseMeld
	PhaseDiscard
)

func (p TurnPhase) String() string {
	switch p {
	case PhaseDraw:
		return "draw"
	case PhaseMeld:
		return "meld"
	case PhaseDiscard:
		return "discard"
	}
	return "unknown"
}

// GameState is the complete state of a Canasta game: one hand's worth of
// mutable card state plus the cumulative scores and hand counter that
// survive hand boundaries. It is mutated exclusively through ApplyAction
// and the hand finalization that LegalActions runs when the stock is gone;
// an illegal action is never partially applied.
//
// Card conservation holds at every reachable state: hands + stock + discard
// pile + melds + red-three piles + undealt deck always total 108 cards.
type GameState struct {
	Rules Rules `json:"rules"`

	// Card collections. Stock is drawn from the front; the discard pile's
	// top card is the last element.
	Deck      []Card             `json:"deck"` // undealt cards during the dealing phase
	Hands     [NumPlayers][]Card `json:"hands"`
	Stock     []Card             `json:"stock"`
	Discard   []Card             `json:"discard"`
	Melds     [NumTeams][]Meld   `json:"melds"`
	Canastas  [NumTeams]int      `json:"canastas"`
	RedThrees [NumTeams][]Card   `json:"red_threes"`

	// Dealing bookkeeping.
	Dealing      bool  `json:"dealing"`
	CardsDealt   int   `json:"cards_dealt"`
	Replacements []int `json:"replacements"` // players owed a red-three replacement, FIFO

	// Turn state.
	CurrentPlayer int       `json:"current_player"`
	Phase         TurnPhase `json:"phase"`

	// Pile-freezing flags.
	WildDiscarded   bool `json:"wild_discarded"`    // a wild was discarded this hand
	BlackThreeBlock bool `json:"black_three_block"` // black three blocks the next player

	InitialMeldMade [NumTeams]bool `json:"initial_meld_made"`

	// Going-out negotiation.
	AskPending    bool `json:"ask_pending"`
	Asker         int  `json:"asker"`
	GoOutApproved bool `json:"go_out_approved"`
	AskedThisTurn bool `json:"asked_this_turn"`

	// Cross-hand progression.
	TeamScores  [NumTeams]int `json:"team_scores"`
	HandScores  [NumTeams]int `json:"hand_scores"`
	HandNumber  int           `json:"hand_number"`
	Terminal    bool          `json:"terminal"`
	WinningTeam int           `json:"winning_team"` // -1 until decided
}

// NewGameState returns a fresh game at the start of its first hand, in the
// dealing phase with the full ordered deck awaiting chance actions.
func NewGameState(rules Rules) *GameState {
	g := &GameState{
		Rules:         rules.normalized(),
		Deck:          NewDeck(),
		Dealing:       true,
		CurrentPlayer: 0,
		Phase:         PhaseDraw,
		Asker:         -1,
		WinningTeam:   -1,
	}
	return g
}

// startNewHand resets all per-hand state for the next deal. Cumulative team
// scores, the hand counter, and the rules survive.
func (g *GameState) startNewHand() {
	g.HandNumber++
	g.Deck = NewDeck()
	for p := 0; p < NumPlayers; p++ {
		g.Hands[p] = nil
	}
	g.Stock = nil
	g.Discard = nil
	for t := 0; t < NumTeams; t++ {
		g.Melds[t] = nil
		g.Canastas[t] = 0
		g.RedThrees[t] = nil
		g.InitialMeldMade[t] = false
		g.HandScores[t] = 0
	}
	g.Dealing = true
	g.CardsDealt = 0
	g.Replacements = nil
	g.CurrentPlayer = 0
	g.Phase = PhaseDraw
	g.WildDiscarded = false
	g.BlackThreeBlock = false
	g.AskPending = false
	g.Asker = -1
	g.GoOutApproved = false
	g.AskedThisTurn = false
	g.Terminal = false
	g.WinningTeam = -1
}

// TeamOf returns the team index of a player: players 0 and 2 are team 0,
// players 1 and 3 are team 1.
func TeamOf(player int) int { return player % 2 }

// PartnerOf returns the player's partner.
func PartnerOf(player int) int { return (player + 2) % NumPlayers }

// CurrentPlayerID returns the acting player (0-3), ChancePlayerID during
// dealing, or TerminalPlayerID once the game is over.
func (g *GameState) CurrentPlayerID() int {
	if g.Terminal {
		return TerminalPlayerID
	}
	if g.Dealing {
		return ChancePlayerID
	}
	return g.CurrentPlayer
}

// IsChanceNode reports whether the next action belongs to the chance actor.
func (g *GameState) IsChanceNode() bool { return !g.Terminal && g.Dealing }

// IsTerminal reports whether the game is over.
func (g *GameState) IsTerminal() bool { return g.Terminal }

// DiscardTop returns the top discard-pile card; ok is false when the pile
// is empty.
func (g *GameState) DiscardTop() (Card, bool) {
	if len(g.Discard) == 0 {
		return 0, false
	}
	return g.Discard[len(g.Discard)-1], true
}

// Returns reports each player's cumulative return: the team scores banked
// at hand boundaries, shared by both teammates.
func (g *GameState) Returns() [NumPlayers]float64 {
	var r [NumPlayers]float64
	for p := 0; p < NumPlayers; p++ {
		r[p] = float64(g.TeamScores[TeamOf(p)])
	}
	return r
}

// teamHasMeldOfRank reports whether the team already holds a meld of rank.
func (g *GameState) teamHasMeldOfRank(team, rank int) bool {
	for _, m := range g.Melds[team] {
		if m.Rank == rank {
			return true
		}
	}
	return false
}

// updateCanastaCount recounts the team's canastas after melds change.
func (g *GameState) updateCanastaCount(team int) {
	count := 0
	for _, m := range g.Melds[team] {
		if m.IsCanasta() {
			count++
		}
	}
	g.Canastas[team] = count
}

// removeFromHand deletes one occurrence of each given card from the
// player's hand.
func (g *GameState) removeFromHand(player int, cards []Card) {
	for _, card := range cards {
		hand := g.Hands[player]
		for i, c := range hand {
			if c == card {
				g.Hands[player] = append(hand[:i], hand[i+1:]...)
				break
			}
		}
	}
}

// applyChance deals one card: the action is an index into the remaining
// deck. Dealt red threes are filed to the owning team's pile and queued for
// replacement. After the 44th card, replacements are drawn in FIFO order
// from the front of the remaining deck (chained when a replacement is
// itself a red three), the upcard is flipped, and the stock is formed.
func (g *GameState) applyChance(deckIndex int) {
	card := g.Deck[deckIndex]
	g.Deck = append(g.Deck[:deckIndex], g.Deck[deckIndex+1:]...)

	player := g.CardsDealt / g.Rules.HandSize
	if player < NumPlayers {
		if card.IsRedThree() {
			g.RedThrees[TeamOf(player)] = append(g.RedThrees[TeamOf(player)], card)
			g.Replacements = append(g.Replacements, player)
		} else {
			g.Hands[player] = append(g.Hands[player], card)
		}
	}
	g.CardsDealt++

	if g.CardsDealt < NumPlayers*g.Rules.HandSize {
		return
	}

	for len(g.Replacements) > 0 && len(g.Deck) > 0 {
		p := g.Replacements[0]
		g.Replacements = g.Replacements[1:]
		replacement := g.Deck[0]
		g.Deck = g.Deck[1:]
		if replacement.IsRedThree() {
			g.RedThrees[TeamOf(p)] = append(g.RedThrees[TeamOf(p)], replacement)
			g.Replacements = append(g.Replacements, p)
			continue
		}
		g.Hands[p] = append(g.Hands[p], replacement)
	}
	if len(g.Replacements) > 0 {
		// Deck exhausted mid-replacement; nothing more to deal.
		g.Replacements = nil
	}

	g.Dealing = false
	if len(g.Deck) > 0 {
		g.Discard = append(g.Discard, g.Deck[0])
		g.Deck = g.Deck[1:]
	}
	g.Stock = g.Deck
	g.Deck = nil
	g.CurrentPlayer = 0
	g.Phase = PhaseDraw
}
