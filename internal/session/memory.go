package session

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/worker-directory/internal/view"
)

type memoryEntry struct {
	snap    view.Snapshot
	expires time.Time
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
	locked  map[string]struct{}
}

// NewMemoryStore builds a store whose entries expire after ttl of inactivity.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
		locked:  make(map[string]struct{}),
	}
}

// WithClock replaces the time source; used by tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Get(_ context.Context, id string) (view.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return view.Snapshot{}, ErrNotFound
	}
	if s.ttl > 0 && s.now().After(entry.expires) {
		delete(s.entries, id)
		return view.Snapshot{}, ErrNotFound
	}
	return entry.snap, nil
}

func (s *MemoryStore) Put(_ context.Context, id string, snap view.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = memoryEntry{snap: snap, expires: s.now().Add(s.ttl)}
	s.sweep()
	return nil
}

func (s *MemoryStore) Lock(_ context.Context, id string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, held := s.locked[id]; held {
		return nil, ErrLocked
	}
	s.locked[id] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.locked, id)
			s.mu.Unlock()
		})
	}, nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	return len(s.entries)
}

// sweep drops expired entries. Callers hold s.mu.
func (s *MemoryStore) sweep() {
	if s.ttl <= 0 {
		return
	}
	now := s.now()
	for id, entry := range s.entries {
		if now.After(entry.expires) {
			delete(s.entries, id)
		}
	}
}
