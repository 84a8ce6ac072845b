package game

import (
	"github.com/google/uuid"

	"github.com/jhtschultz/canasta/engine"
)

// GameEventType tags a game event broadcast over the websocket transport.
type GameEventType string

// Event types. "player_*" events are public; "private_*" events go to a
// single seat.
const (
	EventGameStart      GameEventType = "game_start"        // Public: all four seats bound, first hand dealing.
	EventHandStart      GameEventType = "hand_start"        // Public: a new hand was dealt.
	EventPlayerTurn     GameEventType = "player_turn"       // Public: whose turn and which phase.
	EventPlayerDraw     GameEventType = "player_draw_stock" // Public: player drew from stock (count only).
	EventPrivateDraw    GameEventType = "private_draw"      // Private: the card that was drawn.
	EventPlayerTakePile GameEventType = "player_take_pile"  // Public: player took the discard pile.
	EventPlayerMeld     GameEventType = "player_meld"       // Public: meld laid down or extended.
	EventPlayerDiscard  GameEventType = "player_discard"    // Public: card discarded.
	EventPlayerAsk      GameEventType = "player_ask_go_out" // Public: player asked partner to go out.
	EventPlayerAnswer   GameEventType = "player_answer"     // Public: partner's yes/no.
	EventPlayerGoOut    GameEventType = "player_go_out"     // Public: player went out.
	EventHandEnd        GameEventType = "hand_end"          // Public: hand scored, cumulative totals.
	EventGameEnd        GameEventType = "game_end"          // Public: game over, winner and final scores.
	EventPrivateSync    GameEventType = "private_sync"      // Private: full per-seat view.
)

// EventUser identifies a user within an event payload.
type EventUser struct {
	ID   uuid.UUID `json:"id"`
	Seat int       `json:"seat"`
}

// GameEvent is the JSON envelope pushed to clients.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	User    *EventUser             `json:"user,omitempty"`   // acting player, if any
	Action  *engine.ActionID       `json:"action,omitempty"` // wire id of the applied action
	View    *SeatView              `json:"view,omitempty"`   // for private_sync
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// SeatView is one seat's visible slice of the game: the own hand in full,
// opponents only as counts.
type SeatView struct {
	Seat        int                            `json:"seat"`
	Hand        []engine.Card                  `json:"hand"`
	HandCounts  [engine.NumPlayers]int         `json:"hand_counts"`
	Melds       [engine.NumTeams][]engine.Meld `json:"melds"`
	RedThrees   [engine.NumTeams]int           `json:"red_threes"`
	DiscardTop  *engine.Card                   `json:"discard_top,omitempty"`
	StockSize   int                            `json:"stock_size"`
	TeamScores  [engine.NumTeams]int           `json:"team_scores"`
	HandNumber  int                            `json:"hand_number"`
	CurrentSeat int                            `json:"current_seat"`
	Phase       string                         `json:"phase"`
	LegalIDs    []engine.ActionID              `json:"legal_actions,omitempty"` // only for the seat to act
}

// eventTypeForAction maps an applied wire id to its public event type.
func eventTypeForAction(id engine.ActionID) GameEventType {
	switch {
	case id == engine.ActionDrawStock:
		return EventPlayerDraw
	case id == engine.ActionTakePile:
		return EventPlayerTakePile
	case id >= engine.ActionCreateMeldStart && id <= engine.ActionAddToMeldEnd:
		return EventPlayerMeld
	case id == engine.ActionSkipMeld:
		return EventPlayerTurn
	case id >= engine.ActionDiscardStart && id <= engine.ActionDiscardEnd:
		return EventPlayerDiscard
	case id == engine.ActionAskPartner:
		return EventPlayerAsk
	case id == engine.ActionAnswerYes || id == engine.ActionAnswerNo:
		return EventPlayerAnswer
	case id == engine.ActionGoOut:
		return EventPlayerGoOut
	}
	return EventPlayerTurn
}
