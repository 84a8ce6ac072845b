package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 5000, cfg.TargetScore)
	assert.Equal(t, 30, cfg.TurnTimerSec)
	assert.Equal(t, 24*time.Hour, cfg.SnapshotTTL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("TARGET_SCORE", "2500")
	t.Setenv("TURN_TIMER_SEC", "0")
	t.Setenv("SNAPSHOT_TTL_HOURS", "6")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg := Load()
	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, 2500, cfg.TargetScore)
	assert.Equal(t, 0, cfg.TurnTimerSec)
	assert.Equal(t, 6*time.Hour, cfg.SnapshotTTL)
	assert.Equal(t, "env-secret", cfg.JWTSecret)
}

func TestLoadIgnoresBadNumbers(t *testing.T) {
	t.Setenv("TARGET_SCORE", "not-a-number")
	cfg := Load()
	assert.Equal(t, 5000, cfg.TargetScore)
}
