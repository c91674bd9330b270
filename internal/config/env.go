package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration read from IDLESCAPE_* variables.
type Config struct {
	HTTPAddr      string        `env:"HTTP_ADDR" envDefault:":8080"`
	DBDSN         string        `env:"DB_DSN"`
	MigrationsDir string        `env:"MIGRATIONS_DIR"`
	ContentDir    string        `env:"CONTENT_DIR"`
	BalanceFile   string        `env:"BALANCE_FILE"`
	TickInterval  time.Duration `env:"TICK_INTERVAL" envDefault:"250ms"`
	RNGSeed       int64         `env:"RNG_SEED"`
}

// UsesPostgres reports whether a DSN was given; otherwise the in-memory
// store backs the server.
func (c Config) UsesPostgres() bool {
	return c.DBDSN != ""
}

func FromEnv() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "IDLESCAPE_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TickInterval <= 0 {
		return Config{}, fmt.Errorf("parse env: IDLESCAPE_TICK_INTERVAL must be positive, got %s", cfg.TickInterval)
	}
	return cfg, nil
}
