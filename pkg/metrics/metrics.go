package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)
	MongoOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mongo_operation_duration_seconds",
			Help:    "MongoDB operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "collection"},
	)
	MongoErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mongo_errors_total",
			Help: "Total number of failed MongoDB operations",
		},
		[]string{"operation", "collection"},
	)
	RedisOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	RedisErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_errors_total",
			Help: "Total number of failed Redis operations",
		},
		[]string{"operation"},
	)
	CacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "listing_cache_hits_total",
			Help: "Total number of search cache hits",
		},
	)
	CacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "listing_cache_misses_total",
			Help: "Total number of search cache misses",
		},
	)
	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "listing_search_results",
			Help:    "Number of documents returned per address search",
			Buckets: []float64{0, 1, 5, 10, 15, 20},
		},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(MongoOperationDuration)
		prometheus.MustRegister(MongoErrorsTotal)
		prometheus.MustRegister(RedisOperationDuration)
		prometheus.MustRegister(RedisErrorsTotal)
		prometheus.MustRegister(CacheHitsTotal)
		prometheus.MustRegister(CacheMissesTotal)
		prometheus.MustRegister(SearchResults)
	})
}

// ObserveMongo records how long a MongoDB operation took since start and
// counts it as failed when err is non-nil.
func ObserveMongo(operation, collection string, start time.Time, err error) {
	MongoOperationDuration.WithLabelValues(operation, collection).Observe(time.Since(start).Seconds())
	if err != nil {
		MongoErrorsTotal.WithLabelValues(operation, collection).Inc()
	}
}

func ObserveRedis(operation string, start time.Time, err error) {
	RedisOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		RedisErrorsTotal.WithLabelValues(operation).Inc()
	}
}
