package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotHeld is returned by Release when the lease expired and another
// holder took the key.
var ErrNotHeld = errors.New("lock: not held")

// releaseScript deletes the key only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a Locker shared by every process that talks to the same Redis.
// A lease expires after TTL so a crashed holder cannot wedge the key.
type Redis struct {
	client     redis.UniversalClient
	ttl        time.Duration
	minBackoff time.Duration
	maxBackoff time.Duration
}

var _ Locker = (*Redis)(nil)

// RedisOption configures a Redis locker.
type RedisOption func(*Redis)

// WithTTL sets the lease length. Default 30s.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) { r.ttl = ttl }
}

// WithBackoff bounds the retry delay between acquisition attempts.
func WithBackoff(minDelay, maxDelay time.Duration) RedisOption {
	return func(r *Redis) {
		r.minBackoff = minDelay
		r.maxBackoff = maxDelay
	}
}

func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	r := &Redis{
		client:     client,
		ttl:        30 * time.Second,
		minBackoff: 5 * time.Millisecond,
		maxBackoff: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) Lock(ctx context.Context, key string) (Release, error) {
	token := uuid.NewString()
	delay := r.minBackoff

	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("lock: acquire %s: %w", key, err)
		}
		if ok {
			return r.release(key, token), nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		delay = min(delay*2, r.maxBackoff)
	}
}

func (r *Redis) release(key, token string) Release {
	return func(ctx context.Context) error {
		n, err := releaseScript.Run(ctx, r.client, []string{key}, token).Int()
		if err != nil {
			return fmt.Errorf("lock: release %s: %w", key, err)
		}
		if n == 0 {
			return ErrNotHeld
		}
		return nil
	}
}
