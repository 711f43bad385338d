// Package redis provides the Redis client, the short-TTL stats cache, and the
// distributed booking mutex.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/laborguard/complaint-service/internal/config"
	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/logging"
	"github.com/laborguard/complaint-service/pkg/errors"
)

// Client wraps the go-redis client with the configured key prefix.
type Client struct {
	rdb    *redis.Client
	prefix string
	log    logging.Logger
}

// NewClient connects to Redis and verifies connectivity with a ping.
func NewClient(ctx context.Context, cfg config.RedisConfig, log logging.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrap(err, errors.ErrCodeUnavailable, "redis ping failed")
	}

	log.Info("redis connected", logging.String("addr", cfg.Addr))
	return &Client{rdb: rdb, prefix: cfg.KeyPrefix, log: log}, nil
}

// key applies the configured prefix.
func (c *Client) key(k string) string {
	return c.prefix + k
}

// HealthCheck pings Redis; used by the readiness endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeUnavailable, "redis unreachable")
	}
	return nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}
