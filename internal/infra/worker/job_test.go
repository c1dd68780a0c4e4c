package worker

import (
	"context"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cineverse/internal/domain/entity"
	"cineverse/internal/resilience/retry"
	"cineverse/internal/usecase/enrich"
)

type enricherFunc func(ctx context.Context, subjects []entity.Subject) (*enrich.Result, error)

func (f enricherFunc) Run(ctx context.Context, subjects []entity.Subject) (*enrich.Result, error) {
	return f(ctx, subjects)
}

type memSnapshots struct {
	mu    sync.Mutex
	saved []entity.Snapshot
	errs  []error
	calls int
}

func (m *memSnapshots) Save(_ context.Context, s *entity.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		if err != nil {
			return err
		}
	}
	s.ID = int64(len(m.saved) + 1)
	m.saved = append(m.saved, *s)
	return nil
}

func (m *memSnapshots) Latest(_ context.Context, collection string) (*entity.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.saved) - 1; i >= 0; i-- {
		if m.saved[i].Collection == collection {
			s := m.saved[i]
			return &s, nil
		}
	}
	return nil, entity.ErrNotFound
}

func echoEnricher() enricherFunc {
	return func(_ context.Context, subjects []entity.Subject) (*enrich.Result, error) {
		res := &enrich.Result{RunID: "run-" + subjects[0].Name}
		for _, s := range subjects {
			res.Subjects = append(res.Subjects, entity.SubjectResult{Name: s.Name})
		}
		return res, nil
	}
}

func newJob(e Enricher, snaps *memSnapshots, cols ...entity.Collection) *EnrichJob {
	return &EnrichJob{
		Enricher:    e,
		Snapshots:   snaps,
		Collections: cols,
		Timeout:     time.Minute,
		Metrics:     NewWorkerMetrics(),
		Logger:      quietLogger(),
		Retry:       retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1},
	}
}

func TestEnrichJob_SavesSnapshotPerCollection(t *testing.T) {
	snaps := &memSnapshots{}
	job := newJob(echoEnricher(), snaps,
		entity.Collection{Name: "bond", Subjects: []entity.Subject{{Name: "Sean Connery"}}},
		entity.Collection{Name: "marvel", Subjects: []entity.Subject{{Name: "Chris Evans"}}},
	)
	successBefore := testutil.ToFloat64(job.Metrics.JobRunsTotal.WithLabelValues("success"))

	require.NoError(t, job.Run(context.Background()))

	require.Len(t, snaps.saved, 2)
	assert.Equal(t, "bond", snaps.saved[0].Collection)
	assert.Equal(t, "run-Sean Connery", snaps.saved[0].RunID)
	assert.Equal(t, "marvel", snaps.saved[1].Collection)
	assert.Equal(t, successBefore+1, testutil.ToFloat64(job.Metrics.JobRunsTotal.WithLabelValues("success")))
}

func TestEnrichJob_FailedCollectionDoesNotStopOthers(t *testing.T) {
	snaps := &memSnapshots{}
	enricher := enricherFunc(func(ctx context.Context, subjects []entity.Subject) (*enrich.Result, error) {
		if subjects[0].Name == "broken" {
			return &enrich.Result{}, context.DeadlineExceeded
		}
		return echoEnricher()(ctx, subjects)
	})
	job := newJob(enricher, snaps,
		entity.Collection{Name: "a", Subjects: []entity.Subject{{Name: "broken"}}},
		entity.Collection{Name: "b", Subjects: []entity.Subject{{Name: "fine"}}},
	)
	failureBefore := testutil.ToFloat64(job.Metrics.JobRunsTotal.WithLabelValues("failure"))

	err := job.Run(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Contains(t, err.Error(), "collection a")
	require.Len(t, snaps.saved, 1)
	assert.Equal(t, "b", snaps.saved[0].Collection)
	assert.Equal(t, failureBefore+1, testutil.ToFloat64(job.Metrics.JobRunsTotal.WithLabelValues("failure")))
}

func TestEnrichJob_RetriesSnapshotSave(t *testing.T) {
	snaps := &memSnapshots{errs: []error{driver.ErrBadConn, driver.ErrBadConn}}
	job := newJob(echoEnricher(), snaps, entity.Collection{Name: "bond", Subjects: []entity.Subject{{Name: "Roger Moore"}}})

	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, 3, snaps.calls)
	assert.Len(t, snaps.saved, 1)
}

func TestEnrichJob_PermanentSaveErrorFails(t *testing.T) {
	snaps := &memSnapshots{errs: []error{errors.New("duplicate key value violates unique constraint")}}
	job := newJob(echoEnricher(), snaps, entity.Collection{Name: "bond", Subjects: []entity.Subject{{Name: "Timothy Dalton"}}})

	err := job.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "save snapshot")
	assert.Equal(t, 1, snaps.calls)
}
