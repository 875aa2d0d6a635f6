package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lewlewstore/backend/internal/domain/ledger"
	"github.com/lewlewstore/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "lewlew:total:"

// RedisTotalCache implements ledger.TotalCache using Redis.
// Totals are shared by every instance pointing at the same Redis.
type RedisTotalCache struct {
	client     *redis.Client
	ownsClient bool
	keyPrefix  string
	ttl        time.Duration
}

// RedisTotalCacheOption configures a RedisTotalCache
type RedisTotalCacheOption func(*RedisTotalCache)

// WithKeyPrefix sets the key prefix
func WithKeyPrefix(prefix string) RedisTotalCacheOption {
	return func(c *RedisTotalCache) {
		if prefix != "" {
			c.keyPrefix = prefix
		}
	}
}

// WithTTL sets the expiration of cached totals (0 means no expiration)
func WithTTL(ttl time.Duration) RedisTotalCacheOption {
	return func(c *RedisTotalCache) {
		c.ttl = ttl
	}
}

// NewRedisTotalCache connects to Redis and verifies the connection
func NewRedisTotalCache(cfg config.RedisConfig, opts ...RedisTotalCacheOption) (*RedisTotalCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c := NewRedisTotalCacheWithClient(client, opts...)
	c.ownsClient = true
	return c, nil
}

// NewRedisTotalCacheWithClient creates a cache with an existing Redis client.
// The caller retains ownership of the client.
func NewRedisTotalCacheWithClient(client *redis.Client, opts ...RedisTotalCacheOption) *RedisTotalCache {
	c := &RedisTotalCache{
		client:    client,
		keyPrefix: defaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisTotalCache) key(customerID string) string {
	return c.keyPrefix + customerID
}

// Get returns the cached total and whether it was present
func (c *RedisTotalCache) Get(ctx context.Context, customerID string) (int64, bool, error) {
	total, err := c.client.Get(ctx, c.key(customerID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get total from cache: %w", err)
	}
	return total, true, nil
}

// Set stores a derived total
func (c *RedisTotalCache) Set(ctx context.Context, customerID string, total int64) error {
	if err := c.client.Set(ctx, c.key(customerID), total, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set total in cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached total
func (c *RedisTotalCache) Invalidate(ctx context.Context, customerID string) error {
	if err := c.client.Del(ctx, c.key(customerID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached total: %w", err)
	}
	return nil
}

// Close closes the client when this cache created it
func (c *RedisTotalCache) Close() error {
	if !c.ownsClient {
		return nil
	}
	return c.client.Close()
}

// Ensure RedisTotalCache implements ledger.TotalCache
var _ ledger.TotalCache = (*RedisTotalCache)(nil)
