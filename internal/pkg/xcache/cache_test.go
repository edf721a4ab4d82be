package xcache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestNewMemory(t *testing.T) {
	cache := NewMemory[string](5*time.Minute, 10*time.Minute)

	ctx := context.Background()

	err := cache.Set(ctx, "test-key", "test-value")
	require.NoError(t, err)

	value, err := cache.Get(ctx, "test-key")
	require.NoError(t, err)
	require.Equal(t, "test-value", value)

	require.Equal(t, "cache", cache.GetType())
}

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewRedis[string](client)

	ctx := context.Background()

	err := cache.Set(ctx, "redis-key", "redis-value")
	require.NoError(t, err)

	value, err := cache.Get(ctx, "redis-key")
	require.NoError(t, err)
	require.Equal(t, "redis-value", value)

	err = cache.Delete(ctx, "redis-key")
	require.NoError(t, err)

	_, err = cache.Get(ctx, "redis-key")
	require.Error(t, err)
}

func TestNewFromConfig_Memory(t *testing.T) {
	cfg := Config{
		Mode: ModeMemory,
		Memory: MemoryConfig{
			Expiration:      5 * time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
	}

	cache := NewFromConfig[string](cfg)

	ctx := context.Background()

	err := cache.Set(ctx, "memory-config-key", "memory-config-value")
	require.NoError(t, err)

	value, err := cache.Get(ctx, "memory-config-key")
	require.NoError(t, err)
	require.Equal(t, "memory-config-value", value)

	require.Equal(t, "cache", cache.GetType())
}

func TestNewFromConfig_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()

	cfg := Config{
		Mode: ModeRedis,
		Redis: RedisConfig{
			Addr:       mr.Addr(),
			Expiration: 5 * time.Minute,
		},
	}

	cache := NewFromConfig[string](cfg)

	ctx := context.Background()

	err := cache.Set(ctx, "redis-config-key", "redis-config-value")
	require.NoError(t, err)

	value, err := cache.Get(ctx, "redis-config-key")
	require.NoError(t, err)
	require.Equal(t, "redis-config-value", value)
}

func TestNewFromConfig_RedisWithoutAddr(t *testing.T) {
	cfg := Config{
		Mode: ModeRedis,
	}

	require.Panics(t, func() {
		_ = NewFromConfig[string](cfg)
	})
}

func TestNewFromConfig_TwoLevel(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()

	cfg := Config{
		Mode: ModeTwoLevel,
		Memory: MemoryConfig{
			Expiration:      5 * time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
		Redis: RedisConfig{
			Addr:       mr.Addr(),
			Expiration: 15 * time.Minute,
		},
	}

	cache := NewFromConfig[string](cfg)

	ctx := context.Background()

	err := cache.Set(ctx, "two-level-key", "two-level-value")
	require.NoError(t, err)

	value, err := cache.Get(ctx, "two-level-key")
	require.NoError(t, err)
	require.Equal(t, "two-level-value", value)

	require.Equal(t, "chain", cache.GetType())
}

func TestNewFromConfig_TwoLevelWithoutRedis(t *testing.T) {
	cfg := Config{
		Mode: ModeTwoLevel,
		Memory: MemoryConfig{
			Expiration:      5 * time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
	}

	// Falls back to memory-only when redis is not configured.
	cache := NewFromConfig[string](cfg)
	require.Equal(t, "cache", cache.GetType())
}

func TestNewFromConfig_EmptyMode(t *testing.T) {
	cache := NewFromConfig[string](Config{})

	require.Equal(t, "noop", cache.GetType())

	_, err := cache.Get(context.Background(), "test")
	require.ErrorIs(t, err, ErrCacheNotConfigured)
}

func TestNoopWritesAreDropped(t *testing.T) {
	cache := NewNoop[int]()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", 42))
	require.NoError(t, cache.Delete(ctx, "k"))

	_, err := cache.Get(ctx, "k")
	require.Error(t, err)
}

func TestComplexDataTypes(t *testing.T) {
	type testStruct struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	cache := NewFromConfig[testStruct](Config{Mode: ModeMemory})

	ctx := context.Background()

	testData := testStruct{ID: 123, Name: "Test Name"}

	err := cache.Set(ctx, "struct-key", testData)
	require.NoError(t, err)

	retrieved, err := cache.Get(ctx, "struct-key")
	require.NoError(t, err)
	require.Equal(t, testData, retrieved)
}

func TestDefaultIfZero(t *testing.T) {
	require.Equal(t, 5*time.Minute, defaultIfZero(0, 5*time.Minute))
	require.Equal(t, 10*time.Minute, defaultIfZero(10*time.Minute, 5*time.Minute))
}
