package store

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	rec     Record
	expires time.Time
}

// MemoryStore 进程内存储，ttl 为 0 表示不过期。
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		records: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := memoryEntry{rec: rec}
	if s.ttl > 0 {
		entry.expires = s.now().Add(s.ttl)
	}
	s.records[rec.ID] = entry
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	if !entry.expires.IsZero() && s.now().After(entry.expires) {
		delete(s.records, id)
		return Record{}, ErrNotFound
	}
	return entry.rec, nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
