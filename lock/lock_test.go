package lock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HassanShehryar1/IronVault-Gym-Management/lock"
)

func newRedisLocker(t *testing.T, opts ...lock.RedisOption) (*lock.Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return lock.NewRedis(client, opts...), mr
}

func lockers(t *testing.T) map[string]lock.Locker {
	rl, _ := newRedisLocker(t, lock.WithBackoff(time.Millisecond, 5*time.Millisecond))
	return map[string]lock.Locker{
		"local": lock.NewLocal(),
		"redis": rl,
	}
}

func TestLockExcludes(t *testing.T) {
	for name, l := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			release, err := l.Lock(ctx, "k")
			require.NoError(t, err)

			waitCtx, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
			defer cancel()
			_, err = l.Lock(waitCtx, "k")
			assert.ErrorIs(t, err, context.DeadlineExceeded)

			other, err := l.Lock(ctx, "other-key")
			require.NoError(t, err, "distinct keys do not contend")
			require.NoError(t, other(ctx))

			require.NoError(t, release(ctx))
			again, err := l.Lock(ctx, "k")
			require.NoError(t, err)
			require.NoError(t, again(ctx))
		})
	}
}

func TestLockSerializesCriticalSection(t *testing.T) {
	for name, l := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var (
				wg      sync.WaitGroup
				inside  int
				maxSeen int
				mu      sync.Mutex
			)
			for range 10 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					release, err := l.Lock(ctx, "section")
					if !assert.NoError(t, err) {
						return
					}
					mu.Lock()
					inside++
					maxSeen = max(maxSeen, inside)
					mu.Unlock()
					time.Sleep(time.Millisecond)
					mu.Lock()
					inside--
					mu.Unlock()
					assert.NoError(t, release(ctx))
				}()
			}
			wg.Wait()
			assert.Equal(t, 1, maxSeen)
		})
	}
}

func TestLocalReleaseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	l := lock.NewLocal()
	release, err := l.Lock(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, release(ctx))
	require.NoError(t, release(ctx))

	held, err := l.Lock(ctx, "k")
	require.NoError(t, err)
	waitCtx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, err = l.Lock(waitCtx, "k")
	assert.Error(t, err, "a second release must not free a later holder")
	require.NoError(t, held(ctx))
}

func TestRedisExpiredLeaseIsNotReleasedByOldHolder(t *testing.T) {
	ctx := context.Background()
	l, mr := newRedisLocker(t, lock.WithTTL(time.Second))

	first, err := l.Lock(ctx, "lease")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)
	second, err := l.Lock(ctx, "lease")
	require.NoError(t, err)

	assert.ErrorIs(t, first(ctx), lock.ErrNotHeld)
	assert.True(t, mr.Exists("lease"), "the new holder keeps the key")

	require.NoError(t, second(ctx))
	assert.False(t, mr.Exists("lease"))
}
