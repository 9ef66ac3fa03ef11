package apibase

import (
	"context"
	"sync"
)

// Store persists the last known-good origin. A Store holds at most one value.
type Store interface {
	Load(ctx context.Context) (origin string, ok bool, err error)
	Save(ctx context.Context, origin string) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the origin for the life of the process.
type MemoryStore struct {
	mu     sync.Mutex
	origin string
	writes int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.origin, s.origin != "", nil
}

func (s *MemoryStore) Save(_ context.Context, origin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.origin = origin
	s.writes++
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.origin = ""
	return nil
}

// Writes reports how many times Save was called.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
