package xcache

import (
	"context"
	"fmt"
	"time"

	cachelib "github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	gocache_store "github.com/eko/gocache/store/go_cache/v4"
	redis_store "github.com/eko/gocache/store/redis/v4"
	gocache "github.com/patrickmn/go-cache"
	redis "github.com/redis/go-redis/v9"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/log"
)

// Cache is an alias to the gocache CacheInterface so callers can depend on
// xcache without importing the library directly.
type Cache[T any] = cachelib.CacheInterface[T]

type SetterCache[T any] = cachelib.SetterCacheInterface[T]

// NewMemory creates a pure in-memory cache backed by patrickmn/go-cache.
func NewMemory[T any](defaultExpiration, cleanupInterval time.Duration, options ...Option) SetterCache[T] {
	client := gocache.New(defaultExpiration, cleanupInterval)
	return cachelib.New[T](gocache_store.NewGoCache(client, options...))
}

// NewRedis creates a redis-backed cache from an existing client.
func NewRedis[T any](client redis.UniversalClient, options ...Option) SetterCache[T] {
	return cachelib.New[T](redis_store.NewRedis(client, options...))
}

// NewFromConfig builds a typed cache from the given Config.
//
// If mode is not set, returns a noop cache that never hits.
func NewFromConfig[T any](cfg Config) Cache[T] {
	if cfg.Mode == "" {
		return NewNoop[T]()
	}

	memExpiration := defaultIfZero(cfg.Memory.Expiration, 5*time.Minute)
	memCleanupInterval := defaultIfZero(cfg.Memory.CleanupInterval, 10*time.Minute)
	mem := NewMemory[T](memExpiration, memCleanupInterval, store.WithExpiration(memExpiration))

	var rds SetterCache[T]

	if cfg.Redis.Addr != "" && cfg.Mode != ModeMemory {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		if err := client.Ping(context.Background()).Err(); err != nil {
			panic(fmt.Errorf("failed to ping redis: %w", err))
		}

		redisExpiration := defaultIfZero(cfg.Redis.Expiration, 30*time.Minute)
		rds = NewRedis[T](client, store.WithExpiration(redisExpiration))
	}

	switch cfg.Mode {
	case ModeTwoLevel:
		if rds != nil {
			log.Info(context.Background(), "using two-level cache")
			return cachelib.NewChain[T](mem, rds)
		}

		return mem
	case ModeRedis:
		if rds == nil {
			panic(fmt.Errorf("redis cache config is invalid"))
		}

		return rds
	case ModeMemory:
		return mem
	default:
		return NewNoop[T]()
	}
}

func defaultIfZero(value, fallback time.Duration) time.Duration {
	if value == 0 {
		return fallback
	}

	return value
}
