package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache key prefixes and TTLs.
const (
	catalogKeyPrefix  = "catalog:"
	negCacheKeySuffix = ":neg"

	// NegativeCacheTTL is the TTL for negative cache entries.
	NegativeCacheTTL = time.Minute
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// GetJSON loads a cached catalog payload into dest.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) error {
	data, err := c.client.Get(ctx, catalogKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// A corrupt entry behaves like a miss and gets overwritten.
		return ErrCacheMiss
	}

	return nil
}

// SetJSON stores a catalog payload and clears any negative entry for the key.
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, catalogKeyPrefix+key, data, ttl)
	pipe.Del(ctx, catalogKeyPrefix+key+negCacheKeySuffix)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set cache value: %w", err)
	}

	return nil
}

// IsNegativelyCached checks if a key was recently looked up and not found.
func (c *Cache) IsNegativelyCached(ctx context.Context, key string) (bool, error) {
	exists, err := c.client.Exists(ctx, catalogKeyPrefix+key+negCacheKeySuffix).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check negative cache: %w", err)
	}

	return exists > 0, nil
}

// SetNegativeCache marks a key as not found.
func (c *Cache) SetNegativeCache(ctx context.Context, key string) error {
	err := c.client.SetEx(ctx, catalogKeyPrefix+key+negCacheKeySuffix, "", NegativeCacheTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to set negative cache: %w", err)
	}

	return nil
}
