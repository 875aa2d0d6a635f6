package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lewlewstore/backend/internal/domain/ledger"
)

const defaultCleanupInterval = 5 * time.Minute

// entry is a cached total with its expiration
type entry struct {
	total     int64
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// InMemoryTotalCache implements ledger.TotalCache using an in-process map.
// It suits single-instance deployments and tests.
type InMemoryTotalCache struct {
	mu        sync.RWMutex
	entries   map[string]entry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once

	hits   atomic.Int64
	misses atomic.Int64
}

// NewInMemoryTotalCache creates a new in-memory cache. A zero ttl keeps entries until
// they are overwritten or invalidated.
func NewInMemoryTotalCache(ttl time.Duration) *InMemoryTotalCache {
	c := &InMemoryTotalCache{
		entries:  make(map[string]entry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns the cached total and whether it was present
func (c *InMemoryTotalCache) Get(_ context.Context, customerID string) (int64, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[customerID]
	c.mu.RUnlock()

	if !ok || e.expired(time.Now()) {
		c.misses.Add(1)
		return 0, false, nil
	}
	c.hits.Add(1)
	return e.total, true, nil
}

// Set stores a derived total
func (c *InMemoryTotalCache) Set(_ context.Context, customerID string, total int64) error {
	e := entry{total: total}
	if c.ttl > 0 {
		e.expiresAt = time.Now().Add(c.ttl)
	}

	c.mu.Lock()
	c.entries[customerID] = e
	c.mu.Unlock()
	return nil
}

// Invalidate drops the cached total
func (c *InMemoryTotalCache) Invalidate(_ context.Context, customerID string) error {
	c.mu.Lock()
	delete(c.entries, customerID)
	c.mu.Unlock()
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemoryTotalCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

func (c *InMemoryTotalCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemoryTotalCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for id, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, id)
		}
	}
}

// Size returns the number of entries, expired ones included
func (c *InMemoryTotalCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit and miss counts
func (c *InMemoryTotalCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Ensure InMemoryTotalCache implements ledger.TotalCache
var _ ledger.TotalCache = (*InMemoryTotalCache)(nil)
