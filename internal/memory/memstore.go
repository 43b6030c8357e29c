package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemStore is an in-process Store backed by a map. It is the default store
// for single-invocation runs and for tests. Values are JSON round-tripped
// so behavior matches the durable backends.
type MemStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

// Store persists value under key.
func (s *MemStore) Store(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value for %s: %w", key, err)
	}
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	return nil
}

// Get loads the value under key into dest, reporting absence via the bool.
func (s *MemStore) Get(_ context.Context, key string, dest any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode value for %s: %w", key, err)
	}
	return true, nil
}

// Close is a no-op for the in-memory store.
func (s *MemStore) Close() error { return nil }

// Len returns the number of stored keys. Used by tests.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

var _ Store = (*MemStore)(nil)
