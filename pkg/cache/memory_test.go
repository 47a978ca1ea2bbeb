package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func newTestMemory(size int) (*MemoryCache, *time.Time) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mc := NewMemoryCache(WithMemoryMaxSize(size), WithMemoryCleanup(0))
	mc.now = func() time.Time { return now }
	return mc, &now
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	mc, _ := newTestMemory(10)
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "a", sample{Name: "Sun", Value: 12.5}, time.Minute))

	var got sample
	require.NoError(t, mc.Get(ctx, "a", &got))
	assert.Equal(t, sample{Name: "Sun", Value: 12.5}, got)

	got.Name = "changed"
	var again sample
	require.NoError(t, mc.Get(ctx, "a", &again))
	assert.Equal(t, "Sun", again.Name, "callers receive copies")

	assert.ErrorIs(t, mc.Get(ctx, "missing", &got), ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	mc, now := newTestMemory(10)
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "a", 1, time.Minute))
	ok, err := mc.Exists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	*now = now.Add(2 * time.Minute)
	var v int
	assert.ErrorIs(t, mc.Get(ctx, "a", &v), ErrCacheMiss)
	ok, _ = mc.Exists(ctx, "a")
	assert.False(t, ok)
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	mc, _ := newTestMemory(2)
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "a", 1, 0))
	require.NoError(t, mc.Set(ctx, "b", 2, 0))

	var v int
	require.NoError(t, mc.Get(ctx, "a", &v)) // a is now most recent
	require.NoError(t, mc.Set(ctx, "c", 3, 0))

	assert.Equal(t, 2, mc.Len())
	assert.ErrorIs(t, mc.Get(ctx, "b", &v), ErrCacheMiss)
	require.NoError(t, mc.Get(ctx, "a", &v))
	assert.Equal(t, 1, v)
}

func TestMemoryCacheSweepAndDelete(t *testing.T) {
	ctx := context.Background()
	mc, now := newTestMemory(10)
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "short", 1, time.Second))
	require.NoError(t, mc.Set(ctx, "long", 2, time.Hour))
	require.NoError(t, mc.Set(ctx, "gone", 3, time.Hour))
	require.NoError(t, mc.Delete(ctx, "gone"))

	*now = now.Add(time.Minute)
	mc.sweep()
	assert.Equal(t, 1, mc.Len())
}

func TestGenerateAndHashKey(t *testing.T) {
	assert.Equal(t, "chart:v1:abc", GenerateKey("chart", "v1", "abc"))
	assert.Len(t, HashKey("x"), 32)
	assert.Equal(t, HashKey("x"), HashKey("x"))
	assert.NotEqual(t, HashKey("x"), HashKey("y"))
}

func TestMinTTL(t *testing.T) {
	assert.Equal(t, time.Minute, minTTL(time.Hour, time.Minute))
	assert.Equal(t, time.Second, minTTL(time.Second, time.Minute))
	assert.Equal(t, time.Minute, minTTL(0, time.Minute))
}

// Runs against a live server when ASTRO_TEST_REDIS=host:port is set.
func TestLayeredCacheWithRedis(t *testing.T) {
	addr := os.Getenv("ASTRO_TEST_REDIS")
	if addr == "" {
		t.Skip("ASTRO_TEST_REDIS not set")
	}
	ctx := context.Background()
	rc := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: addr}), "astrochart-test")
	require.NoError(t, rc.Ping(ctx))

	lc := NewLayeredCache(rc, WithLayeredMemorySize(4))
	defer lc.Close()

	require.NoError(t, rc.Set(ctx, "only-redis", sample{Name: "Moon"}, time.Minute))
	var got sample
	require.NoError(t, lc.Get(ctx, "only-redis", &got))
	assert.Equal(t, "Moon", got.Name)

	ok, err := lc.mem.Exists(ctx, "only-redis")
	require.NoError(t, err)
	assert.True(t, ok, "redis hit is promoted to memory")

	require.NoError(t, lc.Delete(ctx, "only-redis"))
	assert.ErrorIs(t, lc.Get(ctx, "only-redis", &got), ErrCacheMiss)
}
