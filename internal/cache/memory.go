package cache

import (
	"context"
	"sync"
)

// MemoryStore keeps entries in a process-wide map for the lifetime of the
// process. It is unbounded; stale entries are overwritten on the next
// refresh rather than evicted.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ent, ok := s.entries[key]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return ent, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, ent Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = ent
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Len reports the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
