// Package cache stores serialized engine snapshots in Redis so a crashed or
// restarted service can resume running games. A nil Snapshots is valid and
// disables caching.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNoSnapshot is returned when no snapshot exists for a game.
var ErrNoSnapshot = errors.New("no snapshot")

// Snapshots is the Redis-backed snapshot store.
type Snapshots struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to Redis. An empty URL returns (nil, nil): snapshots are off.
func New(ctx context.Context, redisURL string, ttl time.Duration) (*Snapshots, error) {
	if redisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Snapshots{rdb: rdb, ttl: ttl}, nil
}

func key(gameID uuid.UUID) string { return "canasta:game:" + gameID.String() }

// Save writes a game's serialized state, refreshing the TTL.
func (s *Snapshots) Save(ctx context.Context, gameID uuid.UUID, blob []byte) error {
	if s == nil {
		return nil
	}
	if err := s.rdb.Set(ctx, key(gameID), blob, s.ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load reads a game's serialized state.
func (s *Snapshots) Load(ctx context.Context, gameID uuid.UUID) ([]byte, error) {
	if s == nil {
		return nil, ErrNoSnapshot
	}
	blob, err := s.rdb.Get(ctx, key(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return blob, nil
}

// Delete removes a finished game's snapshot.
func (s *Snapshots) Delete(ctx context.Context, gameID uuid.UUID) error {
	if s == nil {
		return nil
	}
	if err := s.rdb.Del(ctx, key(gameID)).Err(); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// Close shuts the Redis connection.
func (s *Snapshots) Close() error {
	if s == nil {
		return nil
	}
	return s.rdb.Close()
}
