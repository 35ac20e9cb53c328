package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the single-instance implementation: a mutex-guarded map of
// TTL counters. Suitable for dev and tests; multi-instance deployments use
// the DB store.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]*counter
	now      func() time.Time // override in tests
}

type counter struct {
	count     int
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[string]*counter), now: time.Now}
}

// Incr implements Store.
func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	c, ok := s.counters[key]
	if !ok || now.After(c.expiresAt) {
		c = &counter{expiresAt: now.Add(window)}
		s.counters[key] = c
	}
	c.count++
	// Opportunistic sweep so abandoned keys don't accumulate.
	if len(s.counters) > 1024 {
		for k, v := range s.counters {
			if now.After(v.expiresAt) {
				delete(s.counters, k)
			}
		}
	}
	return c.count, nil
}
