// Package config loads runtime settings for the uistate command from the
// environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/goliatone/go-uistate/pkg/logging"
	"github.com/goliatone/go-uistate/pkg/storage"
	"github.com/goliatone/go-uistate/pkg/storage/sqlite"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreNoop   = "noop"
)

// Config holds the environment-driven settings.
type Config struct {
	Store      string `env:"UISTATE_STORE" envDefault:"sqlite"`
	DBPath     string `env:"UISTATE_DB_PATH" envDefault:"uistate.db"`
	KeyPrefix  string `env:"UISTATE_KEY_PREFIX" envDefault:"uistate"`
	QuotaBytes int    `env:"UISTATE_QUOTA_BYTES" envDefault:"0"`
	LogLevel   string `env:"UISTATE_LOG_LEVEL" envDefault:"warn"`
	// OTelEndpoint is an OTLP/HTTP collector URL. Empty disables tracing.
	OTelEndpoint string `env:"UISTATE_OTEL_ENDPOINT"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the store kind and quota.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreSQLite, StoreNoop:
	default:
		return fmt.Errorf("config: unsupported store %q (want memory, sqlite or noop)", c.Store)
	}
	if c.Store == StoreSQLite && strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("config: UISTATE_DB_PATH is required for the sqlite store")
	}
	if c.QuotaBytes < 0 {
		return fmt.Errorf("config: quota must not be negative, got %d", c.QuotaBytes)
	}
	return nil
}

// OpenBackend opens the configured backend, wrapped in a quota when one is
// set. The returned close function is never nil.
func (c Config) OpenBackend() (storage.Backend, func() error, error) {
	noClose := func() error { return nil }

	var (
		backend storage.Backend
		closeFn = noClose
	)
	switch c.Store {
	case StoreMemory:
		backend = storage.NewMemory()
	case StoreNoop:
		backend = storage.NewNoop()
	case StoreSQLite:
		store, err := sqlite.Open(c.DBPath)
		if err != nil {
			return nil, noClose, fmt.Errorf("config: open sqlite store: %w", err)
		}
		backend = store
		closeFn = store.Close
	default:
		return nil, noClose, fmt.Errorf("config: unsupported store %q", c.Store)
	}
	return storage.WithQuota(backend, c.QuotaBytes), closeFn, nil
}

// NewLogger returns a text logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) logging.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: logging.ParseLevel(c.LogLevel)})
	return logging.NewSlog(slog.New(handler))
}
