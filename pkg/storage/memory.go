package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Memory implements Backend with a map guarded by a RWMutex.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory creates an empty in-memory Backend.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Noop is a Backend that stores nothing. Reads always miss. Useful when
// rendering server-side where no client storage exists.
type Noop struct{}

// NewNoop returns the no-op Backend.
func NewNoop() Noop {
	return Noop{}
}

func (Noop) Get(context.Context, string) (string, error)    { return "", ErrNotFound }
func (Noop) Set(context.Context, string, string) error      { return nil }
func (Noop) Delete(context.Context, string) error           { return nil }
func (Noop) Keys(context.Context, string) ([]string, error) { return nil, nil }
