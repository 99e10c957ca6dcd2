package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/reelscout/internal/core/domain"
	"github.com/custodia-labs/reelscout/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.MetadataCache = (*MetadataCache)(nil)

// metadataPrefix namespaces cached provider results
const metadataPrefix = "reelscout:metadata:"

// MetadataCache implements driven.MetadataCache using Redis.
// Entries use Redis TTL for automatic expiration.
type MetadataCache struct {
	client *redis.Client
}

// NewMetadataCache creates a new Redis-backed MetadataCache
func NewMetadataCache(client *redis.Client) *MetadataCache {
	return &MetadataCache{client: client}
}

// cacheKey normalises a lookup key so that "Alien" and " alien " share an entry.
func cacheKey(key string) string {
	return metadataPrefix + strings.ToLower(strings.TrimSpace(key))
}

// Get retrieves cached details by key
func (c *MetadataCache) Get(ctx context.Context, key string) (*domain.MovieDetails, error) {
	data, err := c.client.Get(ctx, cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata: %w", err)
	}

	var details domain.MovieDetails
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	return &details, nil
}

// Set stores details with the given TTL. A non-positive TTL stores nothing.
func (c *MetadataCache) Set(ctx context.Context, key string, details *domain.MovieDetails, ttl time.Duration) error {
	if details == nil || ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	return nil
}

// Ping checks if the Redis backend is healthy.
func (c *MetadataCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
