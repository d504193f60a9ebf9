package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const pushCredentialKey = "push:access_token"

// Client wraps the shared Redis connection. It caches the short-lived push
// delivery credential between notification dispatches.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// SetPushCredential caches the delivery gateway access token until it expires
func (c *Client) SetPushCredential(ctx context.Context, token string, ttl time.Duration) error {
	return c.rdb.Set(ctx, pushCredentialKey, token, ttl).Err()
}

// GetPushCredential returns the cached access token, or "" when absent
func (c *Client) GetPushCredential(ctx context.Context) (string, error) {
	token, err := c.rdb.Get(ctx, pushCredentialKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}
