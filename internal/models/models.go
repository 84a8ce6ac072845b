// Package models defines the shared service-side data types.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Player is a seated participant in a running game.
type Player struct {
	ID        uuid.UUID `json:"id"`
	Seat      int       `json:"seat"` // engine seat 0-3; seat%2 is the team
	Connected bool      `json:"connected"`
}

// GameRecord is the persisted result of a finished game.
type GameRecord struct {
	ID          uuid.UUID `json:"id"`
	HandsPlayed int       `json:"hands_played"`
	Team0Score  int       `json:"team0_score"`
	Team1Score  int       `json:"team1_score"`
	WinningTeam int       `json:"winning_team"`
	FinishedAt  time.Time `json:"finished_at"`
}
