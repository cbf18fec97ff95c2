package sessionstore

import (
	"context"
	"sync"

	"github.com/surveyhub/survey-service/internal/engine"
)

type memoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]engine.Snapshot
}

// NewMemoryStore creates an in-process session store, used in tests and as
// a fallback when Redis is not configured.
func NewMemoryStore() Store {
	return &memoryStore{snapshots: make(map[string]engine.Snapshot)}
}

func (s *memoryStore) Save(_ context.Context, key string, snapshot engine.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[key] = snapshot
	return nil
}

func (s *memoryStore) Load(_ context.Context, key string) (engine.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.snapshots[key]
	if !ok {
		return engine.Snapshot{}, ErrNotFound
	}
	return snapshot, nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, key)
	return nil
}
