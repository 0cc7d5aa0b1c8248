// Package config loads server settings from the environment.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every tunable the server reads at startup. Redis and
// Postgres are optional: leaving their addresses empty disables action
// history and result persistence respectively.
type Config struct {
	Addr string `envconfig:"ADDR" default:":8080"`

	TurnTimeout       time.Duration `envconfig:"TURN_TIMEOUT" default:"30s"`
	DefaultScoreLimit int           `envconfig:"DEFAULT_SCORE_LIMIT" default:"100"`

	TokenExpireTime time.Duration `envconfig:"TOKEN_EXPIRE_TIME" default:"72h"`
	PrivateKeyPath  string        `envconfig:"PRIVATE_KEY_PATH"`
	PublicKeyPath   string        `envconfig:"PUBLIC_KEY_PATH"`

	RedisAddr    string `envconfig:"REDIS_ADDR"`
	HistoryQueue string `envconfig:"HISTORY_QUEUE" default:"leastcount_actions"`

	DatabaseURL string `envconfig:"DATABASE_URL"`
}

// Load reads the LC_* environment variables into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("lc", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
