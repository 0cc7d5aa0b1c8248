package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 30*time.Second, cfg.TurnTimeout)
	assert.Equal(t, 100, cfg.DefaultScoreLimit)
	assert.Equal(t, 72*time.Hour, cfg.TokenExpireTime)
	assert.Equal(t, "leastcount_actions", cfg.HistoryQueue)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LC_ADDR", ":9999")
	t.Setenv("LC_TURN_TIMEOUT", "10s")
	t.Setenv("LC_DEFAULT_SCORE_LIMIT", "200")
	t.Setenv("LC_REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.TurnTimeout)
	assert.Equal(t, 200, cfg.DefaultScoreLimit)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}
