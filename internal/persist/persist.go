// Package persist provides the durable key-value store backing the durable
// state-container template. The store is an external collaborator from the
// core's point of view: the state engine treats every call as best-effort and
// never lets a persistence fault break in-memory state.
package persist

import (
	"context"
	"sync"
)

// Store is a durable key-value store. Values must be JSON-serializable.
type Store interface {
	Put(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	Get(ctx context.Context, key string) (any, bool, error)
	Close() error
}

// Memory is an in-process Store used in tests and when no database path is
// configured.
type Memory struct {
	mu     sync.Mutex
	values map[string]any
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]any)}
}

// Put stores a value under key.
func (m *Memory) Put(ctx context.Context, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Get returns the value stored under key, if any.
func (m *Memory) Get(ctx context.Context, key string) (any, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Close is a no-op for the in-memory store.
func (m *Memory) Close() error {
	return nil
}

// Len returns the number of stored keys. Test helper.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}
