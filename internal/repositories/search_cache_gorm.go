package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"freeskill/internal/models"
)

// GORMSearchCache keeps search results in the relational store. Rows older than the
// TTL are ignored by Lookup and removed by Purge or by the next Store for the query.
type GORMSearchCache struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewGORMSearchCache creates a search cache backed by db.
func NewGORMSearchCache(db *gorm.DB, ttl time.Duration) *GORMSearchCache {
	return &GORMSearchCache{
		db:  db,
		ttl: ttl,
		now: time.Now,
	}
}

func (c *GORMSearchCache) cutoff() time.Time {
	return c.now().Add(-c.ttl)
}

// Lookup returns the live entry for query.
func (c *GORMSearchCache) Lookup(ctx context.Context, query string) (*models.SearchCacheEntry, error) {
	var entry models.SearchCacheEntry
	err := c.db.WithContext(ctx).First(&entry, "query = ? AND created_at > ?", query, c.cutoff()).Error
	if err != nil {
		return nil, fmt.Errorf("failed to look up search cache: %w", translate(err))
	}
	return &entry, nil
}

// Store inserts entry. The unique index on query rejects a concurrent duplicate.
func (c *GORMSearchCache) Store(ctx context.Context, entry *models.SearchCacheEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = c.now()
	}
	if entry.Videos == nil {
		entry.Videos = []models.VideoResult{}
	}
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("query = ? AND created_at <= ?", entry.Query, c.cutoff()).
			Delete(&models.SearchCacheEntry{}).Error; err != nil {
			return fmt.Errorf("failed to drop expired search cache entry: %w", err)
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to store search cache entry: %w", translate(err))
		}
		return nil
	})
}

// Purge deletes every expired entry and reports how many rows were removed.
func (c *GORMSearchCache) Purge(ctx context.Context) (int64, error) {
	res := c.db.WithContext(ctx).Where("created_at <= ?", c.cutoff()).Delete(&models.SearchCacheEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge search cache: %w", res.Error)
	}
	return res.RowsAffected, nil
}
