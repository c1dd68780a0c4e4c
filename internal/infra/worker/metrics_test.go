package worker

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewWorkerMetrics_Singleton(t *testing.T) {
	assert.NotPanics(t, func() {
		a := NewWorkerMetrics()
		b := NewWorkerMetrics()
		assert.Same(t, a, b)
	})
}

func TestWorkerMetrics_Record(t *testing.T) {
	m := NewWorkerMetrics()
	runs := testutil.ToFloat64(m.JobRunsTotal.WithLabelValues("success"))
	saved := testutil.ToFloat64(m.SnapshotsSavedTotal)

	m.RecordJobRun("success")
	m.RecordSnapshotSaved()
	m.RecordJobDuration(42 * time.Second)
	m.RecordLastSuccess()

	assert.Equal(t, runs+1, testutil.ToFloat64(m.JobRunsTotal.WithLabelValues("success")))
	assert.Equal(t, saved+1, testutil.ToFloat64(m.SnapshotsSavedTotal))
	assert.Greater(t, testutil.ToFloat64(m.LastSuccessTimestamp), float64(0))
	assert.Equal(t, 1, testutil.CollectAndCount(m.JobDurationSeconds))
}
