package securestore

import (
	"context"
	"sync"
)

// MemStore is an in-memory Store for tests and throwaway environments.
type MemStore struct {
	mu     sync.Mutex
	values map[string]string

	// FailWith, when set, is returned from every operation. Lets tests
	// simulate an unavailable secure store.
	FailWith error
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{values: map[string]string{}}
}

// Set persists value under key.
func (m *MemStore) Set(ctx context.Context, key, value string) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Get returns the value stored under key, or ErrNotFound.
func (m *MemStore) Get(ctx context.Context, key string) (string, error) {
	if m.FailWith != nil {
		return "", m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Delete removes key. Deleting an absent key succeeds.
func (m *MemStore) Delete(ctx context.Context, key string) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
