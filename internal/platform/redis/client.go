// Package redis opens the Redis pool from config.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"ptacheck/internal/platform/config"
)

// Client is the pooled connection behind the verdict cache.
type Client struct {
	*redis.Client
}

// New connects to Redis and pings it. Returns nil, nil when no URL is
// configured.
func New(ctx context.Context, cfg config.Redis) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Client{Client: client}, nil
}

// Health is registered as the "redis" check on /health.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
