// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service-level settings. Engine rules that games are
// created with live here too, so a deployment can run shorter games without
// a rebuild.
type Config struct {
	ListenAddr  string // HTTP listen address
	DatabaseURL string // Postgres DSN; empty disables persistence
	RedisURL    string // Redis URL; empty disables snapshots
	JWTSecret   string // HS256 signing secret

	TargetScore  int           // cumulative team score that ends a game
	TurnTimerSec int           // seconds per turn; 0 disables the timer
	SnapshotTTL  time.Duration // how long game snapshots live in Redis
}

// Defaults returns the standard configuration.
func Defaults() *Config {
	return &Config{
		ListenAddr:   ":8080",
		JWTSecret:    "dev-secret-change-me",
		TargetScore:  5000,
		TurnTimerSec: 30,
		SnapshotTTL:  24 * time.Hour,
	}
}

// Load reads an optional .env file and applies environment variable
// overrides on top of the defaults.
func Load() *Config {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Defaults()
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v, err := strconv.Atoi(os.Getenv("TARGET_SCORE")); err == nil && v > 0 {
		cfg.TargetScore = v
	}
	if v, err := strconv.Atoi(os.Getenv("TURN_TIMER_SEC")); err == nil && v >= 0 {
		cfg.TurnTimerSec = v
	}
	if v, err := strconv.Atoi(os.Getenv("SNAPSHOT_TTL_HOURS")); err == nil && v > 0 {
		cfg.SnapshotTTL = time.Duration(v) * time.Hour
	}
	return cfg
}
