package worker

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"cineverse/internal/pkg/config"
)

// WorkerMetrics holds the worker's Prometheus metrics: configuration
// fallbacks plus the enrichment job's runs, duration and output.
type WorkerMetrics struct {
	*config.ConfigMetrics

	// JobRunsTotal counts job runs by status (started, success, failure).
	JobRunsTotal *prometheus.CounterVec

	// JobDurationSeconds measures one job across all collections.
	JobDurationSeconds prometheus.Histogram

	// SnapshotsSavedTotal counts snapshots persisted by the job.
	SnapshotsSavedTotal prometheus.Counter

	// LastSuccessTimestamp is the Unix time of the last successful job.
	LastSuccessTimestamp prometheus.Gauge
}

var workerMetrics = sync.OnceValue(func() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		JobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_job_runs_total",
			Help: "Total number of enrichment job runs by status",
		}, []string{"status"}),

		JobDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of enrichment job execution in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		SnapshotsSavedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_snapshots_saved_total",
			Help: "Total number of enrichment snapshots saved",
		}),

		LastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful enrichment job",
		}),
	}
})

// NewWorkerMetrics returns the process-wide worker metrics, registering
// them on first use.
func NewWorkerMetrics() *WorkerMetrics {
	return workerMetrics()
}

func (m *WorkerMetrics) RecordJobRun(status string) {
	m.JobRunsTotal.WithLabelValues(status).Inc()
}

func (m *WorkerMetrics) RecordJobDuration(d time.Duration) {
	m.JobDurationSeconds.Observe(d.Seconds())
}

func (m *WorkerMetrics) RecordSnapshotSaved() {
	m.SnapshotsSavedTotal.Inc()
}

func (m *WorkerMetrics) RecordLastSuccess() {
	m.LastSuccessTimestamp.SetToCurrentTime()
}
