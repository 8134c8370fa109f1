package refresh

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps refresh timestamps in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	last map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{last: make(map[string]time.Time)}
}

func (s *MemoryStore) LastRefresh(_ context.Context, clientKey string) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last[strings.ToLower(clientKey)], nil
}

func (s *MemoryStore) RecordRefresh(_ context.Context, clientKey string, at time.Time) error {
	s.mu.Lock()
	s.last[strings.ToLower(clientKey)] = at
	s.mu.Unlock()
	return nil
}
