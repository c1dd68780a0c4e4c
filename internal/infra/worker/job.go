package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cineverse/internal/domain/entity"
	"cineverse/internal/handler/http/respond"
	"cineverse/internal/repository"
	"cineverse/internal/resilience/retry"
	"cineverse/internal/usecase/enrich"
)

// Enricher runs the enrichment pipeline over a list of subjects.
type Enricher interface {
	Run(ctx context.Context, subjects []entity.Subject) (*enrich.Result, error)
}

// EnrichJob enriches every configured collection and saves one snapshot per
// collection. A failing collection does not stop the others.
type EnrichJob struct {
	Enricher    Enricher
	Snapshots   repository.SnapshotRepository
	Collections []entity.Collection
	Timeout     time.Duration
	Metrics     *WorkerMetrics
	Logger      *slog.Logger
	Retry       retry.Config
}

// Run executes one job. It returns the joined errors of failed collections.
func (j *EnrichJob) Run(ctx context.Context) error {
	start := time.Now()
	j.Metrics.RecordJobRun("started")
	j.Logger.Info("enrichment job started", slog.Int("collections", len(j.Collections)))

	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	var errs []error
	for _, col := range j.Collections {
		if err := j.runCollection(ctx, col); err != nil {
			j.Logger.Error("collection enrichment failed",
				slog.String("collection", col.Name),
				slog.String("error", respond.SanitizeError(err)))
			errs = append(errs, fmt.Errorf("collection %s: %w", col.Name, err))
		}
	}

	j.Metrics.RecordJobDuration(time.Since(start))
	if err := errors.Join(errs...); err != nil {
		j.Metrics.RecordJobRun("failure")
		return err
	}
	j.Metrics.RecordJobRun("success")
	j.Metrics.RecordLastSuccess()
	j.Logger.Info("enrichment job completed", slog.Duration("duration", time.Since(start)))
	return nil
}

// runCollection enriches one collection. A cancelled run is not saved: a
// partial snapshot would shadow the last complete one.
func (j *EnrichJob) runCollection(ctx context.Context, col entity.Collection) error {
	result, err := j.Enricher.Run(ctx, col.Subjects)
	if err != nil {
		return fmt.Errorf("enrich: %w", err)
	}

	snapshot := &entity.Snapshot{
		Collection: col.Name,
		RunID:      result.RunID,
		Subjects:   result.Subjects,
	}
	err = retry.WithBackoff(ctx, j.Retry, func() error {
		return j.Snapshots.Save(ctx, snapshot)
	})
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	j.Metrics.RecordSnapshotSaved()

	j.Logger.Info("collection enriched",
		slog.String("collection", col.Name),
		slog.String("run_id", result.RunID),
		slog.Int("resolved", result.Resolved),
		slog.Int("skipped", result.Skipped),
		slog.Int64("snapshot_id", snapshot.ID))
	return nil
}
