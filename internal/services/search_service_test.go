package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"freeskill/internal/logging"
	"freeskill/internal/metrics"
	"freeskill/internal/models"
	"freeskill/internal/repositories"
	"freeskill/internal/services"
)

var providerVideos = []models.VideoResult{
	{VideoID: "a", Title: "Short", Views: "100", Duration: "PT45S"},
	{VideoID: "b", Title: "Basics", Views: "9000", Duration: "PT2M"},
	{VideoID: "c", Title: "Niche", Views: "4000", Duration: "PT3M"},
	{VideoID: "d", Title: "Full course", Views: "50000", Duration: "PT1H2M"},
}

// MockSearchCache is a mock implementation of repositories.SearchCache
type MockSearchCache struct {
	mock.Mock
}

func (m *MockSearchCache) Lookup(ctx context.Context, query string) (*models.SearchCacheEntry, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SearchCacheEntry), args.Error(1)
}

func (m *MockSearchCache) Store(ctx context.Context, entry *models.SearchCacheEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func newSearchService(cache repositories.SearchCache, provider services.VideoProvider) *services.SearchService {
	return services.NewSearchService(cache, provider, metrics.NewMetrics(prometheus.NewRegistry()), logging.Discard())
}

func TestSearchCacheIdempotence(t *testing.T) {
	provider := new(MockVideoProvider)
	provider.On("Search", mock.Anything, "golang", services.MaxResults).Return(providerVideos, nil)
	svc := newSearchService(repositories.NewGORMSearchCache(newTestDB(t), 24*time.Hour), provider)
	ctx := context.Background()

	first, err := svc.Search(ctx, "golang")
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, []string{"50000", "9000"}, views(first.Videos))

	second, err := svc.Search(ctx, "golang")
	require.NoError(t, err)
	assert.True(t, second.Cached)

	a, err := json.Marshal(first.Videos)
	require.NoError(t, err)
	b, err := json.Marshal(second.Videos)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	provider.AssertNumberOfCalls(t, "Search", 1)
}

func TestSearchCacheExpiry(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	provider := new(MockVideoProvider)
	provider.On("Search", mock.Anything, "golang", services.MaxResults).Return(providerVideos, nil)
	svc := newSearchService(repositories.NewRedisSearchCache(client, 24*time.Hour, ""), provider)
	ctx := context.Background()

	_, err = svc.Search(ctx, "golang")
	require.NoError(t, err)
	s.FastForward(23 * time.Hour)
	_, err = svc.Search(ctx, "golang")
	require.NoError(t, err)
	provider.AssertNumberOfCalls(t, "Search", 1)

	s.FastForward(time.Hour + time.Second)
	res, err := svc.Search(ctx, "golang")
	require.NoError(t, err)
	assert.False(t, res.Cached)
	provider.AssertNumberOfCalls(t, "Search", 2)
}

func TestSearchCachesEmptyResults(t *testing.T) {
	provider := new(MockVideoProvider)
	provider.On("Search", mock.Anything, "zzzz", services.MaxResults).Return([]models.VideoResult{}, nil)
	svc := newSearchService(repositories.NewGORMSearchCache(newTestDB(t), 24*time.Hour), provider)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := svc.Search(ctx, "zzzz")
		require.NoError(t, err)
		assert.NotNil(t, res.Videos)
		assert.Empty(t, res.Videos)
	}
	provider.AssertNumberOfCalls(t, "Search", 1)
}

func TestSearchProviderFailureIsNotCached(t *testing.T) {
	provider := new(MockVideoProvider)
	provider.On("Search", mock.Anything, "golang", services.MaxResults).Return(nil, errors.New("timeout")).Once()
	provider.On("Search", mock.Anything, "golang", services.MaxResults).Return(providerVideos, nil).Once()
	svc := newSearchService(repositories.NewGORMSearchCache(newTestDB(t), 24*time.Hour), provider)
	ctx := context.Background()

	_, err := svc.Search(ctx, "golang")
	assertAppError(t, err, http.StatusBadGateway, "")

	res, err := svc.Search(ctx, "golang")
	require.NoError(t, err)
	assert.Len(t, res.Videos, 2)
	provider.AssertExpectations(t)
}

func TestSearchSwallowsStoreConflict(t *testing.T) {
	cache := new(MockSearchCache)
	cache.On("Lookup", mock.Anything, "golang").Return(nil, repositories.ErrNotFound)
	cache.On("Store", mock.Anything, mock.AnythingOfType("*models.SearchCacheEntry")).
		Return(fmt.Errorf("duplicate: %w", repositories.ErrConflict))
	provider := new(MockVideoProvider)
	provider.On("Search", mock.Anything, "golang", services.MaxResults).Return(providerVideos, nil)

	res, err := newSearchService(cache, provider).Search(context.Background(), "golang")
	require.NoError(t, err)
	assert.Equal(t, []string{"50000", "9000"}, views(res.Videos))
	cache.AssertExpectations(t)
}

func TestSearchDegradesWhenCacheFails(t *testing.T) {
	cache := new(MockSearchCache)
	cache.On("Lookup", mock.Anything, "golang").Return(nil, errors.New("connection refused"))
	cache.On("Store", mock.Anything, mock.Anything).Return(errors.New("connection refused"))
	provider := new(MockVideoProvider)
	provider.On("Search", mock.Anything, "golang", services.MaxResults).Return(providerVideos, nil)

	res, err := newSearchService(cache, provider).Search(context.Background(), "golang")
	require.NoError(t, err)
	assert.Len(t, res.Videos, 2)
}

func TestSearchRequiresQuery(t *testing.T) {
	provider := new(MockVideoProvider)
	cache := new(MockSearchCache)

	_, err := newSearchService(cache, provider).Search(context.Background(), "   ")
	assertAppError(t, err, http.StatusBadRequest, "")
	provider.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchKeysAreCaseSensitive(t *testing.T) {
	provider := new(MockVideoProvider)
	provider.On("Search", mock.Anything, mock.AnythingOfType("string"), services.MaxResults).Return(providerVideos, nil)
	svc := newSearchService(repositories.NewGORMSearchCache(newTestDB(t), 24*time.Hour), provider)
	ctx := context.Background()

	_, err := svc.Search(ctx, "Golang")
	require.NoError(t, err)
	_, err = svc.Search(ctx, "golang")
	require.NoError(t, err)
	provider.AssertNumberOfCalls(t, "Search", 2)
}
