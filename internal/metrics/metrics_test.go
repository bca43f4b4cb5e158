package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsExposed(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	m.SearchCache.WithLabelValues("hit").Inc()
	m.SearchCache.WithLabelValues("hit").Inc()
	m.ProviderFetches.WithLabelValues("ok").Inc()

	rec := httptest.NewRecorder()
	Handler(registry).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `freeskill_search_cache_lookups_total{result="hit"} 2`)
	assert.Contains(t, string(body), `freeskill_search_provider_fetches_total{outcome="ok"} 1`)
}
