package cache

import (
	"fmt"
	"io"

	"github.com/lewlewstore/backend/internal/domain/ledger"
	"github.com/lewlewstore/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Cache is a TotalCache that holds resources to release on shutdown
type Cache interface {
	ledger.TotalCache
	io.Closer
}

// Factory creates the running-total cache based on configuration
type Factory struct {
	cacheConfig config.CacheConfig
	redisConfig config.RedisConfig
	logger      *zap.Logger
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// NewFactory creates a new factory
func NewFactory(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		cacheConfig: cacheCfg,
		redisConfig: redisCfg,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateRedisCache creates a Redis-backed cache
func (f *Factory) CreateRedisCache() (Cache, error) {
	c, err := NewRedisTotalCache(f.redisConfig,
		WithKeyPrefix(f.cacheConfig.KeyPrefix),
		WithTTL(f.cacheConfig.TTL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis total cache: %w", err)
	}
	return c, nil
}

// CreateInMemoryCache creates an in-process cache.
// Totals are not shared across instances, which is fine because they are always derivable.
func (f *Factory) CreateInMemoryCache() Cache {
	return NewInMemoryTotalCache(f.cacheConfig.TTL)
}

// Create returns the configured cache, or nil when caching is disabled.
// The redis backend falls back to memory when Redis is unreachable and fallback is allowed.
func (f *Factory) Create() (Cache, error) {
	if !f.cacheConfig.Enabled {
		f.logger.Info("running-total cache disabled")
		return nil, nil
	}

	if f.cacheConfig.Backend == "memory" {
		f.logger.Info("using in-memory total cache")
		return f.CreateInMemoryCache(), nil
	}

	c, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis total cache", zap.String("addr", f.redisConfig.Addr()))
		return c, nil
	}

	if !f.cacheConfig.AllowFallback {
		return nil, fmt.Errorf("Redis required for total cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory total cache", zap.Error(err))
	return f.CreateInMemoryCache(), nil
}
