package lockout

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	count       int
	windowEnds  time.Time
	lockedUntil time.Time
}

// MemoryStore is the single-process fallback used when Redis is not
// configured. Entries are pruned lazily on access.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*memoryEntry), now: time.Now}
}

func (s *MemoryStore) IncrFailures(_ context.Context, key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	e, ok := s.entries[key]
	if !ok || now.After(e.windowEnds) {
		e = &memoryEntry{windowEnds: now.Add(window)}
		s.entries[key] = e
	}
	e.count++
	return e.count, nil
}

func (s *MemoryStore) LockedUntil(_ context.Context, key string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || e.lockedUntil.IsZero() || s.now().After(e.lockedUntil) {
		return time.Time{}, false, nil
	}
	return e.lockedUntil, true, nil
}

func (s *MemoryStore) SetLocked(_ context.Context, key string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		e = &memoryEntry{}
		s.entries[key] = e
	}
	e.lockedUntil = until
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
