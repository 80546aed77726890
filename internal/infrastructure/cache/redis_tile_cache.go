package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "hubzone:tiles:"

// RedisTileCache stores tile payloads in Redis with native TTL
// expiry. Transport failures degrade to cache misses; callers always
// fall back to re-rendering from the spatial store.
type RedisTileCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger

	hits   int64
	misses int64
}

// NewRedisTileCache connects to Redis and verifies the connection.
func NewRedisTileCache(addr, password string, db int, ttl time.Duration, logger *zap.Logger) (*RedisTileCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTileTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RedisTileCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Get fetches a tile payload; any transport error is reported as a
// miss, never propagated.
func (c *RedisTileCache) Get(ctx context.Context, key string) ([]byte, bool) {
	payload, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Redis tile get failed, treating as miss",
				zap.String("key", key), zap.Error(err))
		}
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}
	atomic.AddInt64(&c.hits, 1)
	return payload, true
}

// Set stores a tile payload with the configured TTL.
func (c *RedisTileCache) Set(ctx context.Context, key string, payload []byte) {
	if err := c.client.Set(ctx, redisKeyPrefix+key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("Redis tile set failed",
			zap.String("key", key), zap.Error(err))
	}
}

// ClearExpired is a no-op: Redis expires keys natively.
func (c *RedisTileCache) ClearExpired(ctx context.Context) int {
	return 0
}

// Clear removes every tile key under the cache prefix.
func (c *RedisTileCache) Clear(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Warn("Redis tile delete failed",
				zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("Redis tile scan failed", zap.Error(err))
	}
}

// CacheStats counts tile keys best-effort; a transport failure reports
// size 0 rather than an error. MaxSize is always zero: Redis expires
// entries by TTL and holds no entry-count bound.
func (c *RedisTileCache) CacheStats() Stats {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	size := 0
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		size++
	}

	return Stats{
		Size:   size,
		Hits:   atomic.LoadInt64(&c.hits),
		Misses: atomic.LoadInt64(&c.misses),
	}
}

// Close closes the Redis connection.
func (c *RedisTileCache) Close() error {
	return c.client.Close()
}

// Ensure RedisTileCache implements TileCache
var _ TileCache = (*RedisTileCache)(nil)
