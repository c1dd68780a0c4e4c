package awards

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"cineverse/internal/domain/entity"
	"cineverse/internal/observability/logging"
	"cineverse/internal/observability/metrics"
	"cineverse/internal/observability/tracing"
	"cineverse/internal/repository"
)

// Service serves grouped award listings from the award repository.
type Service struct {
	Repo   repository.AwardRepository
	Engine *Engine
}

// NewService creates a Service grouping with engine. A nil engine uses the default.
func NewService(repo repository.AwardRepository, engine *Engine) *Service {
	if engine == nil {
		engine = &Engine{}
	}
	return &Service{Repo: repo, Engine: engine}
}

// Grouped loads the eligible records of a ceremony and groups them.
// A ceremony without records yields an empty, non-nil slice.
func (s *Service) Grouped(ctx context.Context, ceremony string) ([]entity.PeriodBucket, error) {
	ctx, span := tracing.Start(ctx, "awards.Grouped", attribute.String("award.ceremony", ceremony))
	defer span.End()

	start := time.Now()
	records, err := s.Repo.ListEligible(ctx, ceremony)
	metrics.RecordOperationDuration("award_films_list", time.Since(start))
	if err != nil {
		tracing.Fail(span, err)
		return nil, fmt.Errorf("list award records: %w", err)
	}

	buckets := s.Engine.Group(records)
	if buckets == nil {
		buckets = []entity.PeriodBucket{}
	}

	logging.FromContext(ctx).Debug("award records grouped",
		slog.String("ceremony", ceremony),
		slog.Int("records", len(records)),
		slog.Int("decades", len(buckets)))
	return buckets, nil
}

// Ceremonies lists the ceremonies with stored records.
func (s *Service) Ceremonies(ctx context.Context) ([]string, error) {
	out, err := s.Repo.Ceremonies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ceremonies: %w", err)
	}
	return out, nil
}
