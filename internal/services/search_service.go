package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"freeskill/internal/apperror"
	"freeskill/internal/metrics"
	"freeskill/internal/models"
	"freeskill/internal/repositories"
)

// VideoProvider fetches candidate videos with full metadata for a query.
type VideoProvider interface {
	Search(ctx context.Context, query string, maxResults int) ([]models.VideoResult, error)
}

// SearchResult is the outcome of a search. Cached tells whether it was served from the cache.
type SearchResult struct {
	Videos []models.VideoResult `json:"videos"`
	Cached bool                 `json:"-"`
}

// SearchService serves video searches through the search cache.
type SearchService struct {
	cache    repositories.SearchCache
	provider VideoProvider
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewSearchService creates a new SearchService.
func NewSearchService(cache repositories.SearchCache, provider VideoProvider, m *metrics.Metrics, logger *slog.Logger) *SearchService {
	return &SearchService{
		cache:    cache,
		provider: provider,
		metrics:  m,
		logger:   logger,
	}
}

// Search returns the cached result set for query, or fetches, filters, ranks and
// caches a fresh one. The query is used exactly as received.
func (s *SearchService) Search(ctx context.Context, query string) (SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return SearchResult{}, apperror.BadRequest("Search query is required.")
	}

	entry, err := s.cache.Lookup(ctx, query)
	switch {
	case err == nil:
		s.metrics.SearchCache.WithLabelValues("hit").Inc()
		videos := entry.Videos
		if videos == nil {
			videos = []models.VideoResult{}
		}
		return SearchResult{Videos: videos, Cached: true}, nil
	case errors.Is(err, repositories.ErrNotFound):
		s.metrics.SearchCache.WithLabelValues("miss").Inc()
	default:
		// An unavailable cache degrades to a provider call.
		s.metrics.SearchCache.WithLabelValues("error").Inc()
		s.logger.WarnContext(ctx, "search cache lookup failed", slog.String("query", query), slog.Any("error", err))
	}

	start := time.Now()
	candidates, err := s.provider.Search(ctx, query, MaxResults)
	s.metrics.ProviderDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.ProviderFetches.WithLabelValues("error").Inc()
		return SearchResult{}, apperror.BadGateway("Failed to fetch videos from YouTube.", err)
	}
	s.metrics.ProviderFetches.WithLabelValues("ok").Inc()

	videos := FilterAndRank(candidates)
	err = s.cache.Store(ctx, &models.SearchCacheEntry{Query: query, Videos: videos})
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrConflict):
		s.logger.DebugContext(ctx, "search cache entry stored concurrently", slog.String("query", query))
	default:
		s.logger.WarnContext(ctx, "failed to store search cache entry", slog.String("query", query), slog.Any("error", err))
	}
	return SearchResult{Videos: videos}, nil
}
