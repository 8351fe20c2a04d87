// internal/common/cache/store_test.go
package cache

import (
	"context"
	"testing"
	"time"

	"racket-advisor/internal/common/config"
	"racket-advisor/internal/common/logger"
	"racket-advisor/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func sampleMetrics() models.HandMetrics {
	large := models.SizeLarge
	return models.HandMetrics{
		HandLength:       ptr(70.4),
		HandWidth:        ptr(38.2),
		FingerRatios:     []float64{0.95, 0.88},
		HandSizeCategory: &large,
		Extra:            map[string]interface{}{"captureDevice": "phone"},
	}
}

func createTestRedis(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store, err := NewRedis(config.RedisConfig{Address: mr.Addr()}, ttl)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

// ==========================
// Memory store
// ==========================

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_, ok, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(ctx, "s1", sampleMetrics()))
	got, ok, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, sampleMetrics(), got)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, ok, _ = store.Load(ctx, "s1")
	assert.False(t, ok)
}

// ==========================
// Redis store
// ==========================

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := createTestRedis(t, time.Hour)

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Save(ctx, "s1", sampleMetrics()))
	assert.True(t, mr.Exists("advisor:metrics:s1"))

	got, ok, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleMetrics(), got)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, ok, err = store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_EntriesExpire(t *testing.T) {
	ctx := context.Background()
	store, mr := createTestRedis(t, time.Minute)

	require.NoError(t, store.Save(ctx, "s1", sampleMetrics()))
	mr.FastForward(2 * time.Minute)

	_, ok, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	store, mr := createTestRedis(t, 0)
	require.NoError(t, mr.Set("advisor:metrics:s1", "not json"))

	_, ok, err := store.Load(context.Background(), "s1")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewRedis_RequiresAddress(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{}, 0)
	assert.Error(t, err)
}

// ==========================
// Backend selection
// ==========================

func TestNew_SelectsBackend(t *testing.T) {
	ctx := context.Background()
	log := logger.NewTestLogger(t)

	store, err := New(ctx, config.CacheConfig{Backend: config.CacheMemory}, log)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store, err = New(ctx, config.CacheConfig{
		Backend: config.CacheRedis,
		TTL:     60,
		Redis:   config.RedisConfig{Address: mr.Addr()},
	}, log)
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, store)

	_, err = New(ctx, config.CacheConfig{Backend: "memcached"}, log)
	assert.Error(t, err)
}
