package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type failingBackend struct {
	getErr, setErr, delErr, keysErr error
}

func (f failingBackend) Get(context.Context, string) (string, error)    { return "", f.getErr }
func (f failingBackend) Set(context.Context, string, string) error      { return f.setErr }
func (f failingBackend) Delete(context.Context, string) error           { return f.delErr }
func (f failingBackend) Keys(context.Context, string) ([]string, error) { return nil, f.keysErr }

type captureLogger struct {
	mu    sync.Mutex
	warns []string
	debug []string
}

func (c *captureLogger) Debug(_ context.Context, msg string, _ ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.debug = append(c.debug, msg)
}
func (c *captureLogger) Info(context.Context, string, ...any) {}
func (c *captureLogger) Warn(_ context.Context, msg string, _ ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warns = append(c.warns, msg)
}
func (c *captureLogger) Error(context.Context, string, ...any) {}

func TestMemoryBackend(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := m.Set(ctx, "uistate:orders:sort", `{"sortBy":"date"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := m.Set(ctx, "uistate:customers:filters", `{}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	keys, err := m.Keys(ctx, "uistate:")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "uistate:customers:filters" {
		t.Fatalf("expected sorted keys, got %v", keys)
	}
	if err := m.Delete(ctx, "missing"); err != nil {
		t.Fatalf("delete of missing key should be a no-op, got %v", err)
	}
	if err := m.Delete(ctx, "uistate:orders:sort"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if m.Len() != 1 {
		t.Fatalf("expected 1 key left, got %d", m.Len())
	}
}

func TestNoopBackendAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	n := NewNoop()
	if err := n.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := n.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestQuotaRejectsOversizedWrites(t *testing.T) {
	ctx := context.Background()
	inner := NewMemory()
	q := WithQuota(inner, 20).(*Quota)

	if err := q.Set(ctx, "a", "123456789"); err != nil {
		t.Fatalf("first write should fit: %v", err)
	}
	if err := q.Set(ctx, "b", "1234567890123"); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if _, err := inner.Get(ctx, "b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("rejected write must not reach the backend")
	}
	if err := q.Set(ctx, "a", "12"); err != nil {
		t.Fatalf("overwrite with smaller value should fit: %v", err)
	}
	if q.Used() != 3 {
		t.Fatalf("expected 3 bytes used, got %d", q.Used())
	}
	if err := q.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if q.Used() != 0 {
		t.Fatalf("expected quota released, got %d", q.Used())
	}
}

func TestQuotaDisabled(t *testing.T) {
	inner := NewMemory()
	if got := WithQuota(inner, 0); got != Backend(inner) {
		t.Fatalf("expected unlimited quota to return the inner backend")
	}
}

func TestAdapterReadMissingKey(t *testing.T) {
	a := NewAdapter(nil)
	value, ok := a.Read(context.Background(), "nothing")
	if ok || value != "" {
		t.Fatalf("expected absent key, got %q %v", value, ok)
	}
}

func TestAdapterSwallowsBackendFailures(t *testing.T) {
	ctx := context.Background()
	logger := &captureLogger{}
	boom := errors.New("disk gone")
	a := NewAdapter(failingBackend{getErr: boom, setErr: ErrQuotaExceeded, delErr: boom, keysErr: boom}, WithLogger(logger))

	if _, ok := a.Read(ctx, "k"); ok {
		t.Fatalf("failed read must report absent")
	}
	a.Write(ctx, "k", "v")
	a.Remove(ctx, "k")
	if keys := a.Keys(ctx, ""); keys != nil {
		t.Fatalf("expected nil keys on failure, got %v", keys)
	}

	if len(logger.warns) != 2 {
		t.Fatalf("expected write and remove failures logged as warnings, got %v", logger.warns)
	}
	if len(logger.debug) != 2 {
		t.Fatalf("expected read and keys failures logged at debug, got %v", logger.debug)
	}
}

func TestAdapterRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(NewMemory())
	a.Write(ctx, "k", "v")
	if value, ok := a.Read(ctx, "k"); !ok || value != "v" {
		t.Fatalf("expected round trip, got %q %v", value, ok)
	}
	a.Remove(ctx, "k")
	a.Remove(ctx, "k")
	if _, ok := a.Read(ctx, "k"); ok {
		t.Fatalf("expected key removed")
	}
}
