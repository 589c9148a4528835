package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/argie33/algo-sub009/pkg/config"
)

// Client wraps go-redis. Redis is optional infrastructure here; when
// disabled every helper degrades to a no-op so the batch still runs.
type Client struct {
	rdb     *goredis.Client
	enabled bool
}

// New creates a Redis client from config. When Redis is enabled but
// unreachable the constructor fails rather than silently degrading, so a
// misconfigured lock does not allow overlapping batch runs.
func New(cfg *config.Config) (*Client, error) {
	if !cfg.Redis.Enabled {
		return &Client{enabled: false}, nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, enabled: true}, nil
}

// Enabled reports whether Redis is configured and reachable.
func (c *Client) Enabled() bool {
	return c.enabled
}

// Redis returns the underlying go-redis client.
func (c *Client) Redis() *goredis.Client {
	return c.rdb
}

// Close closes the connection.
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}
