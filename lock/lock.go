// Package lock serializes check-then-commit sequences on a named key.
package lock

import (
	"context"
	"sync"
)

// Release gives a lock back. It is safe to call once.
type Release func(ctx context.Context) error

// Locker acquires exclusive ownership of key, waiting until ctx is done.
type Locker interface {
	Lock(ctx context.Context, key string) (Release, error)
}

// Local is an in-process Locker. Each key is a one-slot semaphore so waits
// honor the context.
type Local struct {
	mu   sync.Mutex
	keys map[string]chan struct{}
}

var _ Locker = (*Local)(nil)

func NewLocal() *Local {
	return &Local{keys: make(map[string]chan struct{})}
}

func (l *Local) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.keys[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.keys[key] = ch
	}
	return ch
}

func (l *Local) Lock(ctx context.Context, key string) (Release, error) {
	ch := l.slot(key)
	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() { <-ch })
		return nil
	}, nil
}
