package integration

import (
	"context"
	"testing"
	"time"

	"github.com/lewlewstore/backend/internal/domain/ledger"
	"github.com/lewlewstore/backend/internal/infrastructure/cache"
	"github.com/lewlewstore/backend/internal/infrastructure/config"
	"github.com/lewlewstore/backend/internal/infrastructure/persistence"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRedisTotalCache(t *testing.T) {
	redisCfg := NewTestRedis(t)
	ctx := context.Background()

	c, err := cache.NewRedisTotalCache(redisCfg, cache.WithKeyPrefix("test:total:"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	t.Run("miss on unknown customer", func(t *testing.T) {
		_, ok, err := c.Get(ctx, customerA)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, customerA, 35000))

		total, ok, err := c.Get(ctx, customerA)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(35000), total)
	})

	t.Run("invalidate removes the entry", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, customerB, 50))
		require.NoError(t, c.Invalidate(ctx, customerB))

		_, ok, err := c.Get(ctx, customerB)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("entries expire after ttl", func(t *testing.T) {
		client := redis.NewClient(&redis.Options{Addr: redisCfg.Addr()})
		t.Cleanup(func() { _ = client.Close() })

		short := cache.NewRedisTotalCacheWithClient(client,
			cache.WithKeyPrefix("ttl:total:"),
			cache.WithTTL(time.Second),
		)
		require.NoError(t, short.Set(ctx, customerC, 100))

		ttl, err := client.TTL(ctx, "ttl:total:"+customerC).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})
}

func TestCacheFactory_Redis(t *testing.T) {
	redisCfg := NewTestRedis(t)

	factory := cache.NewFactory(
		config.CacheConfig{Enabled: true, Backend: "redis"},
		redisCfg,
		cache.WithLogger(zap.NewNop()),
	)
	c, err := factory.Create()
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	_, isRedis := c.(*cache.RedisTotalCache)
	assert.True(t, isRedis)
}

func TestLedger_WithRedisCache(t *testing.T) {
	tdb := NewTestDB(t)
	redisCfg := NewTestRedis(t)
	ctx := context.Background()

	c, err := cache.NewRedisTotalCache(redisCfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	l := ledger.NewLedger(persistence.NewGormPurchaseRepository(tdb.DB),
		ledger.WithTotalCache(c),
		ledger.WithLogger(zap.NewNop()),
	)

	_, err = l.Record(ctx, customerA, 2, "Sticker", 10000)
	require.NoError(t, err)
	_, err = l.Record(ctx, customerA, 1, "Poster", 25000)
	require.NoError(t, err)

	total, err := l.TotalOf(ctx, customerA)
	require.NoError(t, err)
	assert.Equal(t, int64(35000), total)

	cached, ok, err := c.Get(ctx, customerA)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(35000), cached)

	t.Run("stale entry is replaced on the next record", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, customerA, 1))

		receipt, err := l.Record(ctx, customerA, 1, "Badge", 5000)
		require.NoError(t, err)
		assert.Equal(t, int64(40000), receipt.Total)

		total, err := l.TotalOf(ctx, customerA)
		require.NoError(t, err)
		assert.Equal(t, int64(40000), total)
	})
}
