// Package metrics provides centralized Prometheus metrics for the application.
// All collectors register with the default registry and are served on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)
)

// Enrichment metrics
var (
	// EnrichmentRunsTotal counts pipeline runs by outcome (completed, cancelled)
	EnrichmentRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_runs_total",
			Help: "Total number of enrichment pipeline runs",
		},
		[]string{"outcome"},
	)

	// EnrichmentRunDuration measures one full pipeline run
	EnrichmentRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrichment_run_duration_seconds",
			Help:    "Time taken by one enrichment pipeline run",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	// EnrichmentTitlesTotal counts titles by result (resolved, skipped)
	EnrichmentTitlesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_titles_total",
			Help: "Total number of titles attempted by the enrichment pipeline",
		},
		[]string{"result"},
	)
)

// Provider metrics
var (
	// ProviderRequestsTotal counts provider calls by provider, operation and result
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Total number of external provider requests",
		},
		[]string{"provider", "operation", "result"},
	)

	// ProviderRequestDuration measures provider call latency
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "External provider request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4},
		},
		[]string{"provider", "operation"},
	)

	// ProviderCircuitState is the breaker state per provider (0 closed, 1 half-open, 2 open)
	ProviderCircuitState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "provider_circuit_state",
			Help: "Circuit breaker state per provider: 0 closed, 1 half-open, 2 open",
		},
		[]string{"provider"},
	)
)

// Award metrics
var (
	// AwardGroupingAmbiguities counts years that carried more than one explicit winner
	AwardGroupingAmbiguities = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "award_grouping_ambiguities_total",
			Help: "Total number of demoted duplicate explicit winners during award grouping",
		},
	)

	// AwardCatalogEntriesTotal counts catalog entries by load result (resolved, unresolved, failed)
	AwardCatalogEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "award_catalog_entries_total",
			Help: "Total number of award catalog entries processed",
		},
		[]string{"ceremony", "result"},
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBRetriesTotal counts retried database writes by outcome (recovered, exhausted, aborted)
	DBRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_write_retries_total",
			Help: "Total number of database writes that needed a retry, by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordOperationDuration records the duration of a named database operation
func RecordOperationDuration(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
