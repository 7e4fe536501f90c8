package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ledgerly/finance-api/internal/infrastructure/config"
)

const defaultTimeout = 5 * time.Second

// Client is the shared Redis connection. It backs the auth rate limiter and
// answers readiness probes.
type Client struct {
	*redis.Client
	timeout time.Duration
}

// Connect opens a pooled client from cfg and pings it once. The configured
// timeout bounds dialing, every command and the startup ping.
func Connect(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})
	c := &Client{Client: rdb, timeout: timeout}

	if err := c.Ready(ctx); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return c, nil
}

// Ready pings the server within the client timeout.
func (c *Client) Ready(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// RateLimiter builds a fixed-window limiter on this connection.
func (c *Client) RateLimiter(limit int, window time.Duration) *RateLimiter {
	return NewRateLimiter(c.Client, limit, window)
}
