package kvstore

import (
	"context"
	"sync"
)

// Memory is an in-process Store used in tests and ephemeral runs.
// Values survive for the lifetime of the process only.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Read returns the value stored under key, if present.
func (m *Memory) Read(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}

	// Copy so callers cannot mutate the stored value.
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Write stores value under key.
func (m *Memory) Write(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

// Remove deletes the key. Idempotent.
func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// Close is a no-op for the in-memory store.
func (m *Memory) Close() error {
	return nil
}

// Compile-time check that Memory implements Store.
var _ Store = (*Memory)(nil)
