package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Quota wraps a Backend and rejects writes that would push the total stored
// size (keys plus values) above MaxBytes, the way browser storage refuses
// writes once its origin quota is used up.
type Quota struct {
	next     Backend
	maxBytes int

	mu    sync.Mutex
	sizes map[string]int
	used  int
}

// WithQuota wraps next. A maxBytes <= 0 disables the limit and returns next
// unchanged.
func WithQuota(next Backend, maxBytes int) Backend {
	if maxBytes <= 0 {
		return next
	}
	return &Quota{next: next, maxBytes: maxBytes, sizes: map[string]int{}}
}

func (q *Quota) Get(ctx context.Context, key string) (string, error) {
	return q.next.Get(ctx, key)
}

func (q *Quota) Set(ctx context.Context, key, value string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.track(ctx, key); err != nil {
		return err
	}
	size := len(key) + len(value)
	next := q.used - q.sizes[key] + size
	if next > q.maxBytes {
		return fmt.Errorf("%w: %d of %d bytes", ErrQuotaExceeded, next, q.maxBytes)
	}
	if err := q.next.Set(ctx, key, value); err != nil {
		return err
	}
	q.used = next
	q.sizes[key] = size
	return nil
}

func (q *Quota) Delete(ctx context.Context, key string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.next.Delete(ctx, key); err != nil {
		return err
	}
	q.used -= q.sizes[key]
	delete(q.sizes, key)
	return nil
}

func (q *Quota) Keys(ctx context.Context, prefix string) ([]string, error) {
	return q.next.Keys(ctx, prefix)
}

// Used reports the bytes currently accounted for.
func (q *Quota) Used() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.used
}

// track accounts for a key that was written before the wrapper existed.
func (q *Quota) track(ctx context.Context, key string) error {
	if _, ok := q.sizes[key]; ok {
		return nil
	}
	value, err := q.next.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	q.sizes[key] = len(key) + len(value)
	q.used += q.sizes[key]
	return nil
}
