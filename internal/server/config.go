package server

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/matzehuels/itemshuffle/pkg/errors"
	"github.com/matzehuels/itemshuffle/pkg/shuffle"
)

// Config is the server configuration, read from the environment.
type Config struct {
	Addr string `env:"ITEMSHUFFLE_ADDR" envDefault:":8080"`

	// RedisURL selects a shared Redis cache. Empty disables caching.
	RedisURL string `env:"ITEMSHUFFLE_REDIS_URL"`

	// MaxAttempts caps the attempts a request may ask for and is the
	// default when it asks for none.
	MaxAttempts int `env:"ITEMSHUFFLE_MAX_ATTEMPTS" envDefault:"100"`
	Parallelism int `env:"ITEMSHUFFLE_PARALLELISM"  envDefault:"4"`

	// MaxAlternatives bounds every substitution while a request's world is
	// integrated. Worlds that exceed it are rejected as INVALID_GRAPH.
	MaxAlternatives int `env:"ITEMSHUFFLE_MAX_ALTERNATIVES" envDefault:"4096"`

	RequestTimeout  time.Duration `env:"ITEMSHUFFLE_REQUEST_TIMEOUT"  envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"ITEMSHUFFLE_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LoadConfig reads the configuration from the environment and validates it.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the limits against the runner's hard caps.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "listen address is required")
	}
	if c.MaxAttempts < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "max attempts must be positive")
	}
	if err := errors.ValidateAttempts("max attempts", c.MaxAttempts, shuffle.LimitMaxAttempts); err != nil {
		return err
	}
	if c.Parallelism < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "parallelism must be positive")
	}
	if err := errors.ValidateAttempts("parallelism", c.Parallelism, shuffle.LimitParallelism); err != nil {
		return err
	}
	if c.MaxAlternatives < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "max alternatives must be positive")
	}
	if c.RequestTimeout <= 0 || c.ShutdownTimeout <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "timeouts must be positive")
	}
	return nil
}
