// Package ratelimit guards lead submissions against abuse with a
// per-identity counting window. The limiter is best-effort throttling,
// not hard security: the in-memory variant resets on restart and is not
// shared across instances. The Redis variant shares the window.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether a submission keyed by identity may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type entry struct {
	count   int
	resetAt time.Time
}

// Memory is an in-process limiter: at most max allowed calls per key
// within one window. Safe for concurrent use.
type Memory struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

func NewMemory(max int, window time.Duration) *Memory {
	return &Memory{
		max:     max,
		window:  window,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// NewMemoryWithClock is NewMemory with an injectable clock.
func NewMemoryWithClock(max int, window time.Duration, now func() time.Time) *Memory {
	m := NewMemory(max, window)
	m.now = now
	return m
}

// Allow returns true while the caller stays within the window budget.
// The first call for a key, or any call after the window expired, starts
// a fresh window. Once the cap is reached the call is rejected without
// mutating state further.
func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e, ok := m.entries[key]
	if !ok || now.After(e.resetAt) {
		m.entries[key] = &entry{count: 1, resetAt: now.Add(m.window)}
		return true, nil
	}

	if e.count >= m.max {
		return false, nil
	}

	e.count++
	return true, nil
}
