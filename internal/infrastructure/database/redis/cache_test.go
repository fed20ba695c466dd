package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxlens/rxlens/internal/config"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/logging"
)

// newTestCache connects to the Redis instance named by RXLENS_TEST_REDIS_ADDR
// and skips the test when the variable is unset.
func newTestCache(t *testing.T) Cache {
	t.Helper()
	addr := os.Getenv("RXLENS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("RXLENS_TEST_REDIS_ADDR not set; skipping redis integration test")
	}

	client, err := NewClient(config.RedisConfig{Addr: addr}, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	cache := NewCache(client, logging.NewNop(), WithPrefix("rxlens-test:"), WithDefaultTTL(time.Minute))
	t.Cleanup(func() {
		_, _ = cache.DeleteByPrefix(context.Background(), "")
	})
	return cache
}

type cachedAnalysis struct {
	ID                string  `json:"id"`
	PrimaryMedication string  `json:"primaryMedication"`
	Confidence        float64 `json:"confidence"`
}

func TestCacheRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	stored := cachedAnalysis{ID: "a1", PrimaryMedication: "metformin", Confidence: 91.5}
	require.NoError(t, cache.Set(ctx, "analysis:abc", stored, 0))

	var got cachedAnalysis
	require.NoError(t, cache.Get(ctx, "analysis:abc", &got))
	assert.Equal(t, stored, got)
}

func TestCacheMiss(t *testing.T) {
	cache := newTestCache(t)

	var got cachedAnalysis
	err := cache.Get(context.Background(), "analysis:absent", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestGetOrSetLoadsOnce(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(ctx context.Context) (interface{}, error) {
		calls++
		return cachedAnalysis{ID: "a2", PrimaryMedication: "aspirin"}, nil
	}

	var first, second cachedAnalysis
	require.NoError(t, cache.GetOrSet(ctx, "analysis:loaded", &first, time.Minute, loader))
	require.NoError(t, cache.GetOrSet(ctx, "analysis:loaded", &second, time.Minute, loader))

	assert.Equal(t, 1, calls)
	assert.Equal(t, "aspirin", second.PrimaryMedication)
}

func TestGetOrSetNullResult(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	var got cachedAnalysis
	err := cache.GetOrSet(ctx, "fda:unknowndrug", &got, time.Minute, func(ctx context.Context) (interface{}, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrCacheMiss)

	// The null sentinel must also read back as a miss.
	err = cache.Get(ctx, "fda:unknowndrug", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCounters(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	n, err := cache.Incr(ctx, "stats:cache_hits")
	require.NoError(t, err)
	m, err := cache.IncrBy(ctx, "stats:cache_hits", 4)
	require.NoError(t, err)
	assert.Equal(t, n+4, m)
}
