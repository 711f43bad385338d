package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/logging"
)

// Cache is a JSON value cache with per-entry TTL.  It is used for the stats
// endpoints, which tolerate slightly stale data in exchange for not hitting
// three aggregate queries on every dashboard refresh.
type Cache struct {
	client *Client
	ttl    time.Duration
}

// NewCache builds a Cache with the given default TTL.
func NewCache(client *Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get loads a cached value into dst.  The boolean reports a hit; cache errors
// are logged and reported as misses so the caller falls through to the source.
func (c *Cache) Get(ctx context.Context, key string, dst interface{}) bool {
	raw, err := c.client.rdb.Get(ctx, c.client.key(key)).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		c.client.log.Warn("cache read failed", logging.String("key", key), logging.Err(err))
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.client.log.Warn("cache entry corrupt", logging.String("key", key), logging.Err(err))
		return false
	}
	return true
}

// Set stores a value under the default TTL.  Failures are logged only.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.client.log.Warn("cache encode failed", logging.String("key", key), logging.Err(err))
		return
	}
	if err := c.client.rdb.Set(ctx, c.client.key(key), raw, c.ttl).Err(); err != nil {
		c.client.log.Warn("cache write failed", logging.String("key", key), logging.Err(err))
	}
}

// Invalidate removes a cached entry.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if err := c.client.rdb.Del(ctx, c.client.key(key)).Err(); err != nil {
		c.client.log.Warn("cache invalidation failed", logging.String("key", key), logging.Err(err))
	}
}
