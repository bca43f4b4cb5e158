package repositories

import (
	"context"

	"freeskill/internal/models"
)

// SearchCache stores filtered search results keyed by the exact query string.
// Entries expire a fixed TTL after creation; an expired entry is reported as a miss.
type SearchCache interface {
	// Lookup returns ErrNotFound on a miss.
	Lookup(ctx context.Context, query string) (*models.SearchCacheEntry, error)
	// Store returns ErrConflict when a live entry for the query already exists.
	Store(ctx context.Context, entry *models.SearchCacheEntry) error
}
