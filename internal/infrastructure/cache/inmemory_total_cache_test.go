package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTotalCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss then hit", func(t *testing.T) {
		c := NewInMemoryTotalCache(0)
		defer c.Close()

		_, ok, err := c.Get(ctx, "A")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, c.Set(ctx, "A", 35000))

		total, ok, err := c.Get(ctx, "A")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(35000), total)

		hits, misses := c.Stats()
		assert.Equal(t, int64(1), hits)
		assert.Equal(t, int64(1), misses)
	})

	t.Run("invalidate drops entry", func(t *testing.T) {
		c := NewInMemoryTotalCache(0)
		defer c.Close()

		require.NoError(t, c.Set(ctx, "A", 10000))
		require.NoError(t, c.Invalidate(ctx, "A"))

		_, ok, err := c.Get(ctx, "A")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 0, c.Size())
	})

	t.Run("entries expire", func(t *testing.T) {
		c := NewInMemoryTotalCache(10 * time.Millisecond)
		defer c.Close()

		require.NoError(t, c.Set(ctx, "A", 10000))
		time.Sleep(20 * time.Millisecond)

		_, ok, err := c.Get(ctx, "A")
		require.NoError(t, err)
		assert.False(t, ok)

		c.cleanup()
		assert.Equal(t, 0, c.Size())
	})

	t.Run("close is idempotent", func(t *testing.T) {
		c := NewInMemoryTotalCache(0)
		assert.NoError(t, c.Close())
		assert.NoError(t, c.Close())
	})

	t.Run("concurrent access", func(t *testing.T) {
		c := NewInMemoryTotalCache(0)
		defer c.Close()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_ = c.Set(ctx, "A", int64(i))
				_, _, _ = c.Get(ctx, "A")
			}(i)
		}
		wg.Wait()

		_, ok, err := c.Get(ctx, "A")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
