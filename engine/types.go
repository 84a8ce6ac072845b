package engine

import (
	"errors"
	"fmt"
	"strconv"
)

// Deck composition: two 52-card decks plus four jokers.
//   - IDs 0-51: first deck (A-K of clubs, diamonds, hearts, spades)
//   - IDs 52-103: second deck (same layout)
//   - IDs 104-107: jokers
const (
	NumCards   = 108
	NumPlayers = 4
	NumTeams   = 2
	NumRanks   = 13
)

// Rank constants (0-12). Jokers have no rank.
const (
	RankAce   = 0
	RankTwo   = 1
	RankThree = 2
	RankFour  = 3
	RankFive  = 4
	RankSix   = 5
	RankSeven = 6
	RankEight = 7
	RankNine  = 8
	RankTen   = 9
	RankJack  = 10
	RankQueen = 11
	RankKing  = 12
	RankNone  = -1 // jokers
)

// Suit constants, in deck order.
const (
	SuitClubs    = 0
	SuitDiamonds = 1
	SuitHearts   = 2
	SuitSpades   = 3
	SuitNone     = -1 // jokers
)

var rankNames = [NumRanks]string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
var suitNames = [4]string{"clubs", "diamonds", "hearts", "spades"}

// Sentinel errors for the three recoverable failure kinds. Callers match
// with errors.Is.
var (
	ErrInvalidCard   = errors.New("invalid card id")
	ErrIllegalAction = errors.New("illegal action")
	ErrSerialization = errors.New("malformed state blob")
)

// Card is a card id in [0, 108). Rank, suit and point value are derived,
// never stored. Methods assume a valid id; raw input crossing the API
// boundary goes through NewCard.
type Card uint8

// NewCard validates a raw id and returns it as a Card.
func NewCard(id int) (Card, error) {
	if id < 0 || id >= NumCards {
		return 0, fmt.Errorf("%w: %d", ErrInvalidCard, id)
	}
	return Card(id), nil
}

// Valid reports whether the card id is in [0, 108).
func (c Card) Valid() bool { return c < NumCards }

// MarshalJSON writes the numeric card id. Card's underlying type is a byte,
// so without this a []Card would encode as a base64 string instead of an
// array of ids.
func (c Card) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, int64(c), 10), nil
}

// UnmarshalJSON reads a numeric card id.
func (c *Card) UnmarshalJSON(data []byte) error {
	id, err := strconv.Atoi(string(data))
	if err != nil || id < 0 || id > 255 {
		return fmt.Errorf("%w: %s", ErrInvalidCard, data)
	}
	*c = Card(id)
	return nil
}

// Rank returns the rank index (0=Ace .. 12=King), or RankNone for jokers.
func (c Card) Rank() int {
	if c.IsJoker() {
		return RankNone
	}
	return int(c) % 52 % 13
}

// Suit returns the suit index in deck order, or SuitNone for jokers.
func (c Card) Suit() int {
	if c.IsJoker() {
		return SuitNone
	}
	return int(c) % 52 / 13
}

// IsJoker reports whether the card is one of the four jokers.
func (c Card) IsJoker() bool { return c >= 104 }

// IsWild reports whether the card is wild (joker or a two).
func (c Card) IsWild() bool { return c.IsJoker() || c.Rank() == RankTwo }

// IsNatural reports whether the card is not wild.
func (c Card) IsNatural() bool { return !c.IsWild() }

// IsRedThree reports whether the card is a three of diamonds or hearts.
func (c Card) IsRedThree() bool {
	if c.Rank() != RankThree {
		return false
	}
	s := c.Suit()
	return s == SuitDiamonds || s == SuitHearts
}

// IsBlackThree reports whether the card is a three of clubs or spades.
func (c Card) IsBlackThree() bool {
	if c.Rank() != RankThree {
		return false
	}
	s := c.Suit()
	return s == SuitClubs || s == SuitSpades
}

// PointValue returns the card's point value per Pagat rules.
//   - Jokers → 50
//   - Twos and Aces → 20
//   - Eight through King → 10
//   - Three through Seven → 5
func (c Card) PointValue() int {
	if c.IsJoker() {
		return 50
	}
	switch r := c.Rank(); {
	case r == RankTwo || r == RankAce:
		return 20
	case r >= RankEight:
		return 10
	default:
		return 5
	}
}

// String renders the card as "A of clubs", "10 of hearts", or "JOKER".
func (c Card) String() string {
	if !c.Valid() {
		return fmt.Sprintf("card(%d)", uint8(c))
	}
	if c.IsJoker() {
		return "JOKER"
	}
	return rankNames[c.Rank()] + " of " + suitNames[c.Suit()]
}

// RankName returns the display name of a rank index ("A".."K").
func RankName(rank int) string {
	if rank < 0 || rank >= NumRanks {
		return "?"
	}
	return rankNames[rank]
}

// CardsOfRank returns the 8 card ids (4 suits x 2 decks) of the given rank.
func CardsOfRank(rank int) ([]Card, error) {
	if rank < 0 || rank >= NumRanks {
		return nil, fmt.Errorf("%w: rank %d", ErrInvalidCard, rank)
	}
	cards := make([]Card, 0, 8)
	for deck := 0; deck < 2; deck++ {
		for suit := 0; suit < 4; suit++ {
			cards = append(cards, Card(deck*52+suit*13+rank))
		}
	}
	return cards, nil
}

// ---------------------------------------------------------------------------
// Action-id constants
// ---------------------------------------------------------------------------

// ActionID is a wire action id. The layout is fixed; drivers that feed the
// ids into tensors rely on these exact values.
//
//	0            DrawStock
//	1            TakePile
//	2-1000       CreateMeld: 2 + rank*50 + numNaturals*4 + numWilds
//	1001-2000    AddToMeld:  1001 + meldIndex*50 + comboCode
//	2001         SkipMeld
//	2002-2109    Discard(card): 2002 + card id
//	2110         AskPartnerToGoOut
//	2111         AnswerYes
//	2112         AnswerNo
//	2113         GoOut
type ActionID uint16

const (
	ActionDrawStock ActionID = 0
	ActionTakePile  ActionID = 1

	ActionCreateMeldStart ActionID = 2
	ActionCreateMeldEnd   ActionID = 1000
	ActionAddToMeldStart  ActionID = 1001
	ActionAddToMeldEnd    ActionID = 2000

	ActionSkipMeld ActionID = 2001

	ActionDiscardStart ActionID = 2002
	ActionDiscardEnd   ActionID = 2109

	ActionAskPartner ActionID = 2110
	ActionAnswerYes  ActionID = 2111
	ActionAnswerNo   ActionID = 2112
	ActionGoOut      ActionID = 2113

	NumDistinctActions = 2114
)

// meldSlotWidth is the id range reserved per rank (CreateMeld) and per meld
// index (AddToMeld). Combo codes that would overflow the slot are never
// generated; resolving actions through the per-query table (rather than by
// arithmetic decode against mutated state) keeps an overflowing code from
// aliasing a neighbour slot.
const meldSlotWidth = 50

// EncodeCreateMeld packs a CreateMeld action id.
func EncodeCreateMeld(rank, numNaturals, numWilds int) ActionID {
	return ActionCreateMeldStart + ActionID(rank*meldSlotWidth+numNaturals*4+numWilds)
}

// DecodeCreateMeld unpacks a CreateMeld id into rank and card counts.
func DecodeCreateMeld(id ActionID) (rank, numNaturals, numWilds int) {
	offset := int(id - ActionCreateMeldStart)
	combo := offset % meldSlotWidth
	return offset / meldSlotWidth, combo / 4, combo % 4
}

// addComboCode packs natural/wild counts for an AddToMeld action.
//   - naturals only → numNaturals (1-9)
//   - wilds only → 10 + numWilds
//   - both → 20 + numNaturals*4 + numWilds
//
// Returns -1 when the combination does not fit its sub-range.
func addComboCode(numNaturals, numWilds int) int {
	var code int
	switch {
	case numWilds == 0:
		code = numNaturals
		if code >= 10 {
			return -1
		}
	case numNaturals == 0:
		code = 10 + numWilds
		if code >= 20 {
			return -1
		}
	default:
		code = 20 + numNaturals*4 + numWilds
		if code >= meldSlotWidth {
			return -1
		}
	}
	return code
}

// EncodeAddToMeld packs an AddToMeld action id, or returns (0, false) when
// the card combination cannot be represented.
func EncodeAddToMeld(meldIndex, numNaturals, numWilds int) (ActionID, bool) {
	code := addComboCode(numNaturals, numWilds)
	if code < 0 {
		return 0, false
	}
	id := ActionAddToMeldStart + ActionID(meldIndex*meldSlotWidth+code)
	if id > ActionAddToMeldEnd {
		return 0, false
	}
	return id, true
}

// DecodeAddToMeld unpacks an AddToMeld id into meld index and card counts.
func DecodeAddToMeld(id ActionID) (meldIndex, numNaturals, numWilds int) {
	offset := int(id - ActionAddToMeldStart)
	meldIndex = offset / meldSlotWidth
	combo := offset % meldSlotWidth
	switch {
	case combo < 10:
		return meldIndex, combo, 0
	case combo < 20:
		return meldIndex, 0, combo - 10
	default:
		adjusted := combo - 20
		return meldIndex, adjusted / 4, adjusted % 4
	}
}

// EncodeDiscard packs a Discard action id for the given card.
func EncodeDiscard(c Card) ActionID { return ActionDiscardStart + ActionID(c) }

// DecodeDiscard unpacks a Discard id into the card being discarded.
func DecodeDiscard(id ActionID) Card { return Card(id - ActionDiscardStart) }

// ---------------------------------------------------------------------------
// Tagged action values
// ---------------------------------------------------------------------------

// ActionType tags the kind of a resolved player action.
type ActionType uint8

const (
	ActDrawStock ActionType = iota
	ActTakePile
	ActCreateMeld
	ActAddToMeld
	ActSkipMeld
	ActDiscard
	ActAskPartner
	ActAnswerYes
	ActAnswerNo
	ActGoOut
)

// Action is a fully resolved legal action: the wire id plus the concrete
// cards it consumes. The legal-action table is rebuilt on every query, so an
// Action is only meaningful against the state it was generated from.
type Action struct {
	ID   ActionID
	Type ActionType

	Rank      int    // ActCreateMeld
	MeldIndex int    // ActAddToMeld
	Cards     []Card // cards consumed; for ActDiscard, Cards[0] is the discard
}
