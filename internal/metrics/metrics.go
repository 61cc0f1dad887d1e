package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal   *prometheus.CounterVec
	cacheHitsTotal      prometheus.Counter
	cacheMissesTotal    prometheus.Counter
	lookupFailuresTotal *prometheus.CounterVec
	cacheEntries        prometheus.Gauge
	registerOnce        sync.Once
)

// Register initializes Prometheus metrics on the default registry.
func Register() {
	registerOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voting",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed by the voting API.",
		}, []string{"method", "path", "status"})

		cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "voting",
			Name:      "cache_hits_total",
			Help:      "Read-through cache hits.",
		})

		cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "voting",
			Name:      "cache_misses_total",
			Help:      "Read-through cache misses.",
		})

		lookupFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voting",
			Name:      "country_lookup_failures_total",
			Help:      "Failed country metadata lookups, by country code.",
		}, []string{"code"})

		cacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "voting",
			Name:      "cache_entries",
			Help:      "Current number of live cache entries.",
		})
	})
}

// IncRequest increments the http_requests_total counter with the given labels.
func IncRequest(method, path string, status int) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

func IncCacheHit() {
	if cacheHitsTotal == nil {
		return
	}
	cacheHitsTotal.Inc()
}

func IncCacheMiss() {
	if cacheMissesTotal == nil {
		return
	}
	cacheMissesTotal.Inc()
}

func IncLookupFailure(code string) {
	if lookupFailuresTotal == nil {
		return
	}
	lookupFailuresTotal.WithLabelValues(code).Inc()
}

func SetCacheEntries(n int) {
	if cacheEntries == nil {
		return
	}
	cacheEntries.Set(float64(n))
}
