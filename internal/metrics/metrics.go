package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Core request/hit/miss counters
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Total number of cache lookups",
		},
		[]string{"store"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"store"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"store"},
	)

	CacheSets = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_sets_total",
			Help: "Total number of values written to the cache",
		},
		[]string{"store"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_invalidations_total",
			Help: "Total number of keys invalidated after writes",
		},
		[]string{"store"},
	)

	CacheBypasses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_bypasses_total",
			Help: "Total number of requests that skipped the cache",
		},
		[]string{"store"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Total number of cache errors by stage",
		},
		[]string{"store", "stage"},
	)

	// Store round-trip latency
	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cache_operation_duration_seconds",
			Help:    "Duration of cache store operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "store"},
	)

	// Local capacity metrics only
	CacheCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_capacity_weight",
			Help: "Local cache capacity in weight units",
		},
		[]string{"store"}, // only "local"
	)

	CacheUsed = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_used_weight",
			Help: "Local cache weight in use",
		},
		[]string{"store"}, // only "local"
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Number of entries held by the local cache",
		},
		[]string{"store"}, // only "local"
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of local entries removed by the store itself",
		},
		[]string{"reason"}, // expired, capacity
	)

	CacheRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_capacity_rejections_total",
			Help: "Total number of local writes rejected for lack of evictable capacity",
		},
	)

	// Pipeline handler latency
	HandlerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "handler_duration_seconds",
			Help:    "Duration of query and command handlers",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "outcome"},
	)
)

// RecordCacheRequest records a cache lookup
func RecordCacheRequest(store string) {
	CacheRequests.WithLabelValues(store).Inc()
}

// RecordCacheHit records a cache hit
func RecordCacheHit(store string) {
	CacheHits.WithLabelValues(store).Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss(store string) {
	CacheMisses.WithLabelValues(store).Inc()
}

// RecordCacheSet records a successful write
func RecordCacheSet(store string) {
	CacheSets.WithLabelValues(store).Inc()
}

// RecordCacheInvalidation records invalidated keys
func RecordCacheInvalidation(store string, keys int) {
	CacheInvalidations.WithLabelValues(store).Add(float64(keys))
}

// RecordCacheBypass records a request that skipped the cache
func RecordCacheBypass(store string) {
	CacheBypasses.WithLabelValues(store).Inc()
}

// RecordCacheError records a cache error with store and stage
func RecordCacheError(store, stage string) {
	CacheErrors.WithLabelValues(store, stage).Inc()
}

// ObserveCacheOperation records the duration of a store round-trip
func ObserveCacheOperation(operation, store string, d time.Duration) {
	CacheOperationDuration.WithLabelValues(operation, store).Observe(d.Seconds())
}

// UpdateLocalCacheCapacity updates local cache capacity metrics
func UpdateLocalCacheCapacity(capacity, used, entries int64) {
	CacheCapacity.WithLabelValues("local").Set(float64(capacity))
	CacheUsed.WithLabelValues("local").Set(float64(used))
	CacheEntries.WithLabelValues("local").Set(float64(entries))
}

// RecordEviction records local entries dropped by expiration or capacity pressure
func RecordEviction(reason string, count int) {
	CacheEvictions.WithLabelValues(reason).Add(float64(count))
}

// RecordCapacityRejection records a rejected local write
func RecordCapacityRejection() {
	CacheRejections.Inc()
}

// TimeHandler returns a function that observes the handler duration with its outcome
func TimeHandler(handler string) func(outcome string) {
	start := time.Now()
	return func(outcome string) {
		HandlerDuration.WithLabelValues(handler, outcome).Observe(time.Since(start).Seconds())
	}
}
