// Package redis implements the analytics cache on Redis, letting several
// server instances share per-wallet snapshots.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gabrxgomes/ShadowStats/internal/storage"
)

const keyPrefix = "analytics:"

// AnalyticsCache implements storage.AnalyticsCache using Redis. Expiry is
// delegated to Redis TTLs.
type AnalyticsCache struct {
	client *redis.Client
}

// NewAnalyticsCache creates a cache backed by the given Redis client.
func NewAnalyticsCache(client *redis.Client) *AnalyticsCache {
	return &AnalyticsCache{client: client}
}

// Connect creates a Redis client and verifies the connection.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Compile-time interface check.
var _ storage.AnalyticsCache = (*AnalyticsCache)(nil)

// Put stores a snapshot for the wallet, replacing any previous entry.
func (c *AnalyticsCache) Put(ctx context.Context, entry *storage.CachedAnalytics, ttl time.Duration) error {
	if entry == nil || entry.Wallet == "" {
		return storage.ErrInvalidInput
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := c.client.Set(ctx, keyPrefix+entry.Wallet, data, ttl).Err(); err != nil {
		return fmt.Errorf("set cache entry: %w", err)
	}
	return nil
}

// Get retrieves the cached snapshot. Returns ErrNotFound if missing or
// expired.
func (c *AnalyticsCache) Get(ctx context.Context, wallet string) (*storage.CachedAnalytics, error) {
	data, err := c.client.Get(ctx, keyPrefix+wallet).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get cache entry: %w", err)
	}

	var entry storage.CachedAnalytics
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshal cache entry: %w", err)
	}
	return &entry, nil
}
