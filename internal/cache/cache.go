// Package cache stores computed analysis views in Redis. The cache sits
// outside the metric computations themselves, which stay pure and
// memoization-free; the same input always recomputes to the same output.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const analysisKeyPrefix = "seo:analysis:"

// Cache is a Redis-backed result cache with a fixed TTL.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a result cache around an existing Redis client.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// GetAnalysis unmarshals a cached analysis view into v.
// Returns false on a miss.
func (c *Cache) GetAnalysis(ctx context.Context, importID string, v interface{}) (bool, error) {
	data, err := c.rdb.Get(ctx, analysisKeyPrefix+importID).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("cache unmarshal: %w", err)
	}
	return true, nil
}

// SetAnalysis stores an analysis view under the import's key.
func (c *Cache) SetAnalysis(ctx context.Context, importID string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	if err := c.rdb.Set(ctx, analysisKeyPrefix+importID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// InvalidateImport drops the cached view for one import.
func (c *Cache) InvalidateImport(ctx context.Context, importID string) error {
	if err := c.rdb.Del(ctx, analysisKeyPrefix+importID).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// InvalidateAll drops every cached analysis view. Used when a validated
// intent changes, since intent feeds every import's opportunity ordering.
func (c *Cache) InvalidateAll(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, analysisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache flush: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan: %w", err)
	}
	return nil
}
