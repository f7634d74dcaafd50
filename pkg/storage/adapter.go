package storage

import (
	"context"
	"errors"

	"github.com/goliatone/go-uistate/pkg/logging"
)

// Option customizes an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger used to report swallowed backend failures.
func WithLogger(l logging.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// Adapter is the best-effort view over a Backend. None of its methods return
// errors: persistence is a convenience, never a correctness requirement.
type Adapter struct {
	backend Backend
	logger  logging.Logger
}

// NewAdapter wraps backend. A nil backend falls back to NewMemory().
func NewAdapter(backend Backend, opts ...Option) *Adapter {
	if backend == nil {
		backend = NewMemory()
	}
	a := &Adapter{
		backend: backend,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Backend returns the wrapped backend.
func (a *Adapter) Backend() Backend {
	return a.backend
}

// Read returns the stored value and true, or ("", false) when the key is
// missing or the backend cannot be read.
func (a *Adapter) Read(ctx context.Context, key string) (string, bool) {
	value, err := a.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.logger.Debug(ctx, "storage read failed", "key", key, "error", err)
		}
		return "", false
	}
	return value, true
}

// Write stores value under key. Failures (quota, unavailable backend) are
// logged and dropped.
func (a *Adapter) Write(ctx context.Context, key, value string) {
	if err := a.backend.Set(ctx, key, value); err != nil {
		a.logger.Warn(ctx, "storage write dropped", "key", key, "error", err)
	}
}

// Remove deletes key. Failures are logged and dropped.
func (a *Adapter) Remove(ctx context.Context, key string) {
	if err := a.backend.Delete(ctx, key); err != nil {
		a.logger.Warn(ctx, "storage remove dropped", "key", key, "error", err)
	}
}

// Keys lists stored keys under prefix, or nil when the backend cannot list.
func (a *Adapter) Keys(ctx context.Context, prefix string) []string {
	keys, err := a.backend.Keys(ctx, prefix)
	if err != nil {
		a.logger.Debug(ctx, "storage keys failed", "prefix", prefix, "error", err)
		return nil
	}
	return keys
}
