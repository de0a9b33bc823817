// Package dedupe remembers keys for a while so repeated work can be skipped.
package dedupe

import (
	"context"
	"sync"
	"time"
)

// Set records keys with a time to live.
type Set interface {
	// Add records key and reports whether it was absent.
	Add(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Memory is a process-local Set. Expired keys are swept on write.
type Memory struct {
	mu   sync.Mutex
	keys map[string]time.Time
	now  func() time.Time
}

var _ Set = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{keys: make(map[string]time.Time), now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) Add(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, exp := range m.keys {
		if !now.Before(exp) {
			delete(m.keys, k)
		}
	}
	if _, ok := m.keys[key]; ok {
		return false, nil
	}
	m.keys[key] = now.Add(ttl)
	return true, nil
}
