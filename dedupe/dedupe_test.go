package dedupe_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HassanShehryar1/IronVault-Gym-Management/dedupe"
)

func TestMemoryAdd(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	s := dedupe.NewMemory().WithClock(func() time.Time { return now })

	added, err := s.Add(ctx, "membership_expiring:mbr_1:2026-10-19", time.Hour)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.Add(ctx, "membership_expiring:mbr_1:2026-10-19", time.Hour)
	require.NoError(t, err)
	assert.False(t, added)

	added, err = s.Add(ctx, "membership_expiring:mbr_2:2026-10-19", time.Hour)
	require.NoError(t, err)
	assert.True(t, added, "keys are independent")

	now = now.Add(time.Hour)
	added, err = s.Add(ctx, "membership_expiring:mbr_1:2026-10-19", time.Hour)
	require.NoError(t, err)
	assert.True(t, added, "expired keys can be added again")
}

func TestRedisAdd(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := dedupe.NewRedis(client, "")

	added, err := s.Add(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, mr.Exists("ironvault:dedupe:k"))

	added, err = s.Add(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.False(t, added)

	mr.FastForward(2 * time.Minute)
	added, err = s.Add(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, added)
}

func TestRedisAddFailsWhenServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	_, err := dedupe.NewRedis(client, "p:").Add(context.Background(), "k", time.Minute)
	assert.Error(t, err)
}
