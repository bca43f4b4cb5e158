package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"freeskill/internal/models"
)

const defaultSearchCachePrefix = "freeskill:search:"

// RedisSearchCache keeps search results in Redis and relies on key expiry for the TTL.
type RedisSearchCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisSearchCache creates a Redis backed search cache. An empty prefix selects the default.
func NewRedisSearchCache(client *redis.Client, ttl time.Duration, prefix string) *RedisSearchCache {
	if prefix == "" {
		prefix = defaultSearchCachePrefix
	}
	return &RedisSearchCache{
		client: client,
		ttl:    ttl,
		prefix: prefix,
	}
}

func (c *RedisSearchCache) Lookup(ctx context.Context, query string) (*models.SearchCacheEntry, error) {
	raw, err := c.client.Get(ctx, c.prefix+query).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("search cache miss for %q: %w", query, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up search cache: %w", err)
	}

	var entry models.SearchCacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode search cache entry: %w", err)
	}
	return &entry, nil
}

func (c *RedisSearchCache) Store(ctx context.Context, entry *models.SearchCacheEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if entry.Videos == nil {
		entry.Videos = []models.VideoResult{}
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode search cache entry: %w", err)
	}

	ok, err := c.client.SetNX(ctx, c.prefix+entry.Query, raw, c.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to store search cache entry: %w", err)
	}
	if !ok {
		return fmt.Errorf("search cache entry for %q already exists: %w", entry.Query, ErrConflict)
	}
	return nil
}
