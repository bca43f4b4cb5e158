package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RequestCount     *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	SearchCache      *prometheus.CounterVec
	ProviderFetches  *prometheus.CounterVec
	ProviderDuration prometheus.Histogram
}

func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		RequestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "freeskill_http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "freeskill_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		SearchCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "freeskill_search_cache_lookups_total",
				Help: "Search cache lookups by result (hit, miss, error).",
			},
			[]string{"result"},
		),
		ProviderFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "freeskill_search_provider_fetches_total",
				Help: "Search provider fetches by outcome.",
			},
			[]string{"outcome"},
		),
		ProviderDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "freeskill_search_provider_duration_seconds",
				Help:    "Search provider fetch duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	registry.MustRegister(m.RequestCount, m.RequestDuration, m.SearchCache, m.ProviderFetches, m.ProviderDuration)
	return m
}

func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
