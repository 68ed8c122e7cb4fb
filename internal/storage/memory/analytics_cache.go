package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gabrxgomes/ShadowStats/internal/storage"
)

// AnalyticsCache is an in-memory implementation of storage.AnalyticsCache.
type AnalyticsCache struct {
	mu   sync.RWMutex
	data map[string]cacheEntry
	now  func() time.Time
}

type cacheEntry struct {
	value     storage.CachedAnalytics
	expiresAt time.Time
}

// NewAnalyticsCache creates a new in-memory analytics cache.
func NewAnalyticsCache() *AnalyticsCache {
	return &AnalyticsCache{
		data: make(map[string]cacheEntry),
		now:  time.Now,
	}
}

// WithClock sets a custom clock, for deterministic expiry in tests.
func (c *AnalyticsCache) WithClock(now func() time.Time) *AnalyticsCache {
	c.now = now
	return c
}

// Compile-time interface check.
var _ storage.AnalyticsCache = (*AnalyticsCache)(nil)

// Put stores a snapshot for the wallet, replacing any previous entry.
func (c *AnalyticsCache) Put(_ context.Context, entry *storage.CachedAnalytics, ttl time.Duration) error {
	if entry == nil || entry.Wallet == "" {
		return storage.ErrInvalidInput
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[entry.Wallet] = cacheEntry{
		value:     *entry,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Get retrieves the cached snapshot. Returns ErrNotFound if missing or
// expired.
func (c *AnalyticsCache) Get(_ context.Context, wallet string) (*storage.CachedAnalytics, error) {
	c.mu.RLock()
	entry, ok := c.data[wallet]
	c.mu.RUnlock()

	if !ok || c.now().After(entry.expiresAt) {
		return nil, storage.ErrNotFound
	}

	copy := entry.value
	return &copy, nil
}
