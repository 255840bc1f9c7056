package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/defilend/ledgerd/internal/metrics"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Client is a thin Redis wrapper for caching listing responses. A nil *Client
// is valid and bypasses the cache entirely, so callers never need to guard
// for a missing Redis deployment.
type Client struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewClient connects to Redis and verifies the connection with a ping.
func NewClient(redisURL string, ttl time.Duration, logger zerolog.Logger) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info().Str("redis_url", redisURL).Msg("Connected to Redis successfully")

	return &Client{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "cache").Logger(),
	}, nil
}

// TransactionsKey is the cache key for a user's transaction listing.
func TransactionsKey(userAddress string) string {
	return "transactions:user:" + userAddress
}

// Get retrieves a cached value into dest and reports whether it was present.
// Lookup failures count as misses; they never fail the request.
func (c *Client) Get(ctx context.Context, key string, dest any) bool {
	if c == nil {
		return false
	}

	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		metrics.RecordCacheRequest("miss")
		return false
	}
	if err != nil {
		metrics.RecordCacheRequest("error")
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache lookup failed")
		return false
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		metrics.RecordCacheRequest("error")
		c.logger.Warn().Err(err).Str("key", key).Msg("Failed to decode cached value")
		return false
	}

	metrics.RecordCacheRequest("hit")
	return true
}

// Set stores value under key with the configured TTL. Failures are logged
// and swallowed.
func (c *Client) Set(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}

	b, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Failed to encode value for cache")
		return
	}

	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Failed to store value in cache")
	}
}

// Invalidate drops a cached entry, typically after an append touched the
// underlying listing.
func (c *Client) Invalidate(ctx context.Context, key string) {
	if c == nil {
		return
	}

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Failed to invalidate cache entry")
	}
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
