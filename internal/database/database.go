// Package database persists users and finished game results in Postgres
// via pgx. A nil Store is valid and disables persistence, so the service
// can run without a database in development.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhtschultz/canasta/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

const createTableSQL = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS games (
	id           UUID PRIMARY KEY,
	hands_played INT NOT NULL,
	team0_score  INT NOT NULL,
	team1_score  INT NOT NULL,
	winning_team SMALLINT NOT NULL,
	finished_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_games_finished_at ON games(finished_at DESC);
`

// Store wraps the connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to Postgres and bootstraps the schema. An empty URL returns
// (nil, nil): persistence is off and every method no-ops.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// CreateUser inserts a new account.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	if s == nil {
		return nil, errors.New("persistence disabled")
	}
	u := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		u.ID, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// GetUserByEmail looks up an account for login.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if s == nil {
		return nil, ErrNotFound
	}
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

// InsertGameResult records a finished game. A nil store drops the record.
func (s *Store) InsertGameResult(ctx context.Context, rec models.GameRecord) error {
	if s == nil {
		return nil
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO games (id, hands_played, team0_score, team1_score, winning_team, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.HandsPlayed, rec.Team0Score, rec.Team1Score, rec.WinningTeam, rec.FinishedAt)
	if err != nil {
		return fmt.Errorf("insert game result: %w", err)
	}
	return nil
}

// ListRecentGames returns the most recently finished games.
func (s *Store) ListRecentGames(ctx context.Context, limit int) ([]models.GameRecord, error) {
	if s == nil {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, hands_played, team0_score, team1_score, winning_team, finished_at
		 FROM games ORDER BY finished_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}
	defer rows.Close()

	var out []models.GameRecord
	for rows.Next() {
		var rec models.GameRecord
		if err := rows.Scan(&rec.ID, &rec.HandsPlayed, &rec.Team0Score, &rec.Team1Score, &rec.WinningTeam, &rec.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan game row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
