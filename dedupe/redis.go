package dedupe

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Set shared across processes, backed by SET NX with expiry.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

var _ Set = (*Redis)(nil)

// NewRedis namespaces every key under prefix ("ironvault:dedupe:" if empty).
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = "ironvault:dedupe:"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Add(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.prefix+key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedupe: add %s: %w", key, err)
	}
	return ok, nil
}
