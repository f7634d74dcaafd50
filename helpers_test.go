package uistate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/goliatone/go-uistate/pkg/activity"
	"github.com/goliatone/go-uistate/pkg/storage"
)

type recordingLogger struct {
	mu     sync.Mutex
	errors []string
	warns  []string
}

func (l *recordingLogger) Debug(context.Context, string, ...any) {}
func (l *recordingLogger) Info(context.Context, string, ...any)  {}
func (l *recordingLogger) Warn(_ context.Context, msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}
func (l *recordingLogger) Error(_ context.Context, msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func (l *recordingLogger) errorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errors)
}

// brokenBackend fails every operation, like storage in a private window
// with quota set to zero.
type brokenBackend struct{}

var errBroken = errors.New("backend unavailable")

func (brokenBackend) Get(context.Context, string) (string, error)    { return "", errBroken }
func (brokenBackend) Set(context.Context, string, string) error      { return errBroken }
func (brokenBackend) Delete(context.Context, string) error           { return errBroken }
func (brokenBackend) Keys(context.Context, string) ([]string, error) { return nil, errBroken }

type fixture struct {
	backend *storage.Memory
	svc     *Service
	logger  *recordingLogger
	hook    *activity.CaptureHook
}

func newFixture(t *testing.T, opts ...ServiceOption) fixture {
	t.Helper()
	f := fixture{
		backend: storage.NewMemory(),
		logger:  &recordingLogger{},
		hook:    &activity.CaptureHook{},
	}
	base := []ServiceOption{
		WithServiceLogger(f.logger),
		WithActivity(activity.NewEmitter(activity.Hooks{f.hook}, activity.Config{Enabled: true})),
	}
	f.svc = NewService(storage.NewAdapter(f.backend), append(base, opts...)...)
	return f
}

// raw reads a composite key straight from the backend.
func (f fixture) raw(t *testing.T, ns Namespace, slot Slot) (string, bool) {
	t.Helper()
	value, err := f.backend.Get(context.Background(), f.svc.Key(ns, slot))
	if errors.Is(err, storage.ErrNotFound) {
		return "", false
	}
	if err != nil {
		t.Fatalf("backend get %s/%s: %v", ns, slot, err)
	}
	return value, true
}

func (f fixture) seed(t *testing.T, ns Namespace, slot Slot, value string) {
	t.Helper()
	if err := f.backend.Set(context.Background(), f.svc.Key(ns, slot), value); err != nil {
		t.Fatalf("seed %s/%s: %v", ns, slot, err)
	}
}

func (f fixture) dump(t *testing.T, ns Namespace) string {
	t.Helper()
	out := ""
	for _, slot := range Slots() {
		value, ok := f.raw(t, ns, slot)
		out += fmt.Sprintf("%s=%t:%s;", slot, ok, value)
	}
	return out
}
