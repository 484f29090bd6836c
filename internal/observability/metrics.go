// Package observability provides metrics and tracing for the application.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blango_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency in seconds.
	DatabaseQueryLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "blango_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// PostsCreated counts successful post creations.
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blango_posts_created_total",
		Help: "Total number of posts created",
	})

	// AuthFailures counts rejected credentials by mechanism (token, jwt).
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blango_auth_failures_total",
		Help: "Total number of rejected authentication attempts",
	}, []string{"mechanism"})
)

// ObserveQuery records the latency of a database query started at the given time.
func ObserveQuery(start time.Time) {
	DatabaseQueryLatency.Observe(time.Since(start).Seconds())
}
