package enrich

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"cineverse/internal/domain/entity"
	"cineverse/internal/observability/logging"
	"cineverse/internal/observability/metrics"
	"cineverse/internal/observability/tracing"
	"cineverse/internal/usecase/stats"
)

// ErrIncompleteSources is returned by NewService when a lookup is missing.
var ErrIncompleteSources = errors.New("enrich: all four sources are required")

// Result is the output of one enrichment run.
type Result struct {
	RunID    string
	Subjects []entity.SubjectResult
	Resolved int
	Skipped  int
	Duration time.Duration
}

// Subject returns the result for the named subject.
func (r *Result) Subject(name string) (entity.SubjectResult, bool) {
	for _, s := range r.Subjects {
		if s.Name == name {
			return s, true
		}
	}
	return entity.SubjectResult{}, false
}

// Stats returns the aggregate statistics keyed by subject name.
func (r *Result) Stats() map[string]entity.AggregateStat {
	out := make(map[string]entity.AggregateStat, len(r.Subjects))
	for _, s := range r.Subjects {
		out[s.Name] = s.Stats
	}
	return out
}

// Service runs the enrichment pipeline.
type Service struct {
	sources     Sources
	parallelism int
}

// NewService creates a Service. A non-positive parallelism uses the default.
func NewService(sources Sources, cfg Config) (*Service, error) {
	if !sources.complete() {
		return nil, ErrIncompleteSources
	}
	p := cfg.Parallelism
	switch {
	case p <= 0:
		p = DefaultParallelism
	case p > MaxParallelism:
		p = MaxParallelism
	}
	return &Service{sources: sources, parallelism: p}, nil
}

// slot holds the outcome of one title occurrence.
type slot struct {
	record   entity.MovieRecord
	resolved bool
}

// Run enriches every title of every subject. Lookup failures never abort the
// run: a failed primary lookup skips the title and any other failure leaves
// defaults in the record. When ctx is cancelled Run stops scheduling work and
// returns the records resolved so far together with ctx.Err().
func (s *Service) Run(ctx context.Context, subjects []entity.Subject) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.FromContext(ctx)

	titles := 0
	for _, subj := range subjects {
		titles += len(subj.Titles)
	}
	ctx, span := tracing.Start(ctx, "enrich.Run",
		attribute.String("run.id", runID),
		attribute.Int("run.subjects", len(subjects)),
		attribute.Int("run.titles", titles))
	defer span.End()

	logger.Info("enrichment run started",
		slog.Int("subjects", len(subjects)),
		slog.Int("titles", titles),
		slog.Int("parallelism", s.parallelism))

	slots := make([][]slot, len(subjects))
	profiles := make([]string, len(subjects))

	g := new(errgroup.Group)
	g.SetLimit(s.parallelism)

schedule:
	for si, subj := range subjects {
		slots[si] = make([]slot, len(subj.Titles))
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			profiles[si] = s.profile(ctx, subj.Name)
			return nil
		})
		for ti, title := range subj.Titles {
			if ctx.Err() != nil {
				break schedule
			}
			g.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}
				rec, ok := s.resolveTitle(ctx, title)
				slots[si][ti] = slot{record: rec, resolved: ok}
				return nil
			})
		}
	}
	_ = g.Wait()

	result := assemble(runID, subjects, slots, profiles)
	result.Duration = time.Since(start)

	err := ctx.Err()
	metrics.RecordEnrichmentRun(err != nil, result.Duration)
	metrics.RecordEnrichmentTitles(result.Resolved, result.Skipped)

	if err != nil {
		tracing.Fail(span, err)
		logger.Warn("enrichment run cancelled",
			slog.Int("resolved", result.Resolved),
			slog.Any("error", err))
		return result, fmt.Errorf("enrichment run %s: %w", runID, err)
	}

	logger.Info("enrichment run completed",
		slog.Int("resolved", result.Resolved),
		slog.Int("skipped", result.Skipped),
		slog.Duration("duration", result.Duration))
	return result, nil
}

// assemble rebuilds the declaration order from the slots. A title that
// occurs more than once keeps the position of its first resolved occurrence
// and the value of its last one.
func assemble(runID string, subjects []entity.Subject, slots [][]slot, profiles []string) *Result {
	result := &Result{RunID: runID, Subjects: make([]entity.SubjectResult, 0, len(subjects))}
	for si, subj := range subjects {
		movies := make([]entity.MovieRecord, 0, len(subj.Titles))
		index := make(map[string]int, len(subj.Titles))
		var samples entity.Samples

		for _, sl := range slots[si] {
			if !sl.resolved {
				result.Skipped++
				continue
			}
			result.Resolved++
			samples.Add(sl.record)
			if i, seen := index[sl.record.Title]; seen {
				movies[i] = sl.record
				continue
			}
			index[sl.record.Title] = len(movies)
			movies = append(movies, sl.record)
		}

		result.Subjects = append(result.Subjects, entity.SubjectResult{
			Name:       subj.Name,
			ProfileURL: profiles[si],
			Movies:     movies,
			Stats:      stats.Aggregate(subj.Name, samples),
		})
	}
	return result
}

func (s *Service) profile(ctx context.Context, name string) string {
	p, err := s.sources.Person.Resolve(ctx, name)
	if err != nil {
		logMiss(ctx, "person", name, err)
		return ""
	}
	return p.ProfileURL
}

// resolveTitle performs the primary lookup and, when it succeeds, the
// ratings and detail lookups. It reports false when the title was skipped.
func (s *Service) resolveTitle(ctx context.Context, title string) (entity.MovieRecord, bool) {
	summary, err := s.sources.Movie.Resolve(ctx, title)
	if err != nil {
		logMiss(ctx, "movie", title, err)
		return entity.MovieRecord{}, false
	}

	ratings, err := s.sources.Ratings.Resolve(ctx, title)
	ratingsOK := err == nil
	if !ratingsOK {
		logMiss(ctx, "ratings", title, err)
		ratings = entity.RatingRecord{}
	}

	var detail entity.MovieDetail
	if summary.ID != 0 {
		if detail, err = s.sources.Detail.Resolve(ctx, summary.ID); err != nil {
			logMiss(ctx, "detail", title, err)
			detail = entity.MovieDetail{}
		}
	}

	return merge(title, summary, ratings, ratingsOK, detail), true
}

func merge(title string, summary entity.MovieSummary, ratings entity.RatingRecord, ratingsOK bool, detail entity.MovieDetail) entity.MovieRecord {
	rec := entity.MovieRecord{
		Title:       title,
		ExternalID:  summary.ID,
		PosterURL:   summary.PosterURL,
		Overview:    summary.Overview,
		ReleaseDate: summary.ReleaseDate,
		VoteAverage: summary.VoteAverage,
		Ratings: entity.Ratings{
			IMDb:           ratings.IMDb,
			RottenTomatoes: ratings.RottenTomatoes,
			Metacritic:     ratings.Metacritic,
		},
		RuntimeMinutes: ratings.RuntimeMinutes,
		VideoKey:       detail.TrailerKey(),
		Location:       Locate(title),
	}
	if rec.Overview == "" {
		rec.Overview = ratings.Plot
	}
	if ratingsOK {
		rec.Trivia = ratings.Trivia()
	}
	return rec
}

// Locate derives a stable map position from the title. Latitude falls in
// [20, 60) and longitude in [-90, 90).
func Locate(title string) entity.Location {
	h := fnv.New64a()
	_, _ = h.Write([]byte(title))
	sum := h.Sum64()
	fLat := float64(sum>>32) / (1 << 32)
	fLng := float64(sum&0xffffffff) / (1 << 32)
	return entity.Location{Lat: 20 + fLat*40, Lng: -90 + fLng*180}
}

func logMiss(ctx context.Context, lookup, key string, err error) {
	level := slog.LevelDebug
	if !errors.Is(err, entity.ErrNotFound) && !errors.Is(err, context.Canceled) {
		level = slog.LevelWarn
	}
	logging.FromContext(ctx).Log(ctx, level, "lookup defaulted",
		slog.String("lookup", lookup),
		slog.String("key", key),
		slog.Any("error", err))
}
