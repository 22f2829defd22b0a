package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/HelicopterHelicopter/AssetHound/internal/domain"
)

const outcomeKeyPrefix = "outcome:"

// RedisCache is a ResultCache backend for deployments where the cache
// should survive restarts or be shared between replicas. Expiry is
// delegated to Redis key TTLs, so Cleanup is a no-op here. Backend
// errors degrade to cache misses rather than failing a validation.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisCache(addr string, ttl time.Duration, logger *zap.Logger) *RedisCache {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisCache{client: rdb, ttl: ttl, logger: logger}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Get(ctx context.Context, url string) (domain.ValidationOutcome, bool) {
	val, err := c.client.Get(ctx, c.key(url)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("redis cache get failed", zap.String("url", url), zap.Error(err))
		}
		return domain.ValidationOutcome{}, false
	}
	var out domain.ValidationOutcome
	if err := json.Unmarshal([]byte(val), &out); err != nil {
		c.logger.Warn("corrupt cache entry, evicting", zap.String("url", url), zap.Error(err))
		c.client.Del(ctx, c.key(url))
		return domain.ValidationOutcome{}, false
	}
	out.URL = url
	return out, true
}

func (c *RedisCache) Set(ctx context.Context, url string, outcome domain.ValidationOutcome) {
	if c.ttl <= 0 {
		// ttl=0 means always expired, so there is nothing worth storing.
		return
	}
	data, err := json.Marshal(outcome)
	if err != nil {
		c.logger.Warn("failed to marshal outcome", zap.String("url", url), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.key(url), data, c.ttl).Err(); err != nil {
		c.logger.Warn("redis cache set failed", zap.String("url", url), zap.Error(err))
	}
}

// Cleanup is a no-op: Redis expires keys natively.
func (c *RedisCache) Cleanup(_ context.Context) {}

func (c *RedisCache) Clear(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, outcomeKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Warn("redis cache clear failed", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("redis cache scan failed", zap.Error(err))
	}
}

// key hashes the URL so arbitrary strings become safe, fixed-size keys.
func (c *RedisCache) key(url string) string {
	h := sha256.Sum256([]byte(url))
	return fmt.Sprintf("%s%s", outcomeKeyPrefix, hex.EncodeToString(h[:]))
}
