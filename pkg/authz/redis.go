package authz

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCache shares resolutions across processes. The same bounded
// staleness contract applies; invalidation hooks issue deletes against
// Redis so all processes observe membership mutations together. Redis
// errors degrade to cache misses - a broken cache must slow requests
// down, never let a stale decision through.
type redisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	log    *slog.Logger
}

// RedisCacheOption configures the Redis-backed cache.
type RedisCacheOption func(*redisCache)

// WithRedisTTL overrides the default 5 minute TTL.
func WithRedisTTL(ttl time.Duration) RedisCacheOption {
	return func(c *redisCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithRedisKeyPrefix overrides the default "authz:res" key prefix.
func WithRedisKeyPrefix(prefix string) RedisCacheOption {
	return func(c *redisCache) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithRedisLogger sets the logger for degraded-mode warnings.
func WithRedisLogger(log *slog.Logger) RedisCacheOption {
	return func(c *redisCache) {
		if log != nil {
			c.log = log
		}
	}
}

// NewRedisCache creates a Cache on an existing Redis client. The caller
// owns the client's lifecycle; Close here is a no-op.
func NewRedisCache(client *redis.Client, opts ...RedisCacheOption) Cache {
	c := &redisCache{
		client: client,
		ttl:    DefaultCacheTTL,
		prefix: "authz:res",
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *redisCache) key(key Key) string {
	return c.prefix + ":" + key.PrincipalID.String() + ":" + key.TenantID.String()
}

// Get implements Cache. Redis handles expiry server-side via the TTL set
// on write.
func (c *redisCache) Get(ctx context.Context, key Key) (Resolution, bool) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.WarnContext(ctx, "authz cache read degraded to miss", "error", err)
		}
		return Resolution{}, false
	}

	var res Resolution
	if err := json.Unmarshal(raw, &res); err != nil {
		// Corrupt payloads are dropped so they cannot keep serving misses.
		c.client.Del(ctx, c.key(key))
		return Resolution{}, false
	}
	return res, true
}

// Set implements Cache.
func (c *redisCache) Set(ctx context.Context, key Key, res Resolution) {
	raw, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(key), raw, c.ttl).Err(); err != nil {
		c.log.WarnContext(ctx, "authz cache write failed", "error", err)
	}
}

// Delete implements Cache.
func (c *redisCache) Delete(ctx context.Context, key Key) {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		c.log.WarnContext(ctx, "authz cache invalidation failed", "error", err, "key", c.key(key))
	}
}

// Clear implements Cache by scanning the prefix. Expensive; intended for
// operational flushes, not the request path.
func (c *redisCache) Clear(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, c.prefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.WarnContext(ctx, "authz cache clear incomplete", "error", err)
	}
}

// Close implements Cache. The Redis client belongs to the caller.
func (c *redisCache) Close() error {
	return nil
}
