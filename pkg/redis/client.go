// Package redis wraps the shared Redis connection plus the two
// utilities built on it: a JSON cache and a sliding-window rate
// limiter. Redis is optional everywhere; with it disabled both
// utilities degrade to no-ops and the weekly run works off the
// primary store alone.
package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/niveshquant/quantfolio/pkg/config"
)

const pingTimeout = 3 * time.Second

// Client wraps the go-redis client. A disabled client is a valid
// value; Enabled reports which kind the caller holds.
type Client struct {
	rdb     *redis.Client
	enabled bool
}

// New connects to Redis when REDIS_ENABLED is set, and returns a
// disabled no-op client otherwise.
func New(cfg *config.Config) (*Client, error) {
	if !cfg.Redis.Enabled {
		return &Client{}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &Client{rdb: rdb, enabled: true}, nil
}

// Close releases the connection. Safe on a disabled client.
func (c *Client) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// Enabled reports whether a live connection backs this client.
func (c *Client) Enabled() bool {
	return c.enabled
}
