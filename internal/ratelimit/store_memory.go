package ratelimit

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore implements Store with per-key fixed windows. Counters for a
// key reset when its window elapses; there is no cross-instance sharing,
// which matches the single-process deployment this serves.
type InMemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	start time.Time
	count int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{windows: make(map[string]*window)}
}

func (s *InMemoryStore) Allow(_ context.Context, key string, limit int, windowSize time.Duration) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	w := s.windows[key]
	if w == nil || now.Sub(w.start) >= windowSize {
		w = &window{start: now}
		s.windows[key] = w
	}

	resetAt := w.start.Add(windowSize)
	if w.count >= limit {
		return &Result{Allowed: false, Limit: limit, Remaining: 0, ResetAt: resetAt}, nil
	}
	w.count++
	return &Result{Allowed: true, Limit: limit, Remaining: limit - w.count, ResetAt: resetAt}, nil
}
