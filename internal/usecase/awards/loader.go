package awards

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"cineverse/internal/domain/entity"
	"cineverse/internal/observability/logging"
	"cineverse/internal/observability/metrics"
	"cineverse/internal/observability/tracing"
	"cineverse/internal/repository"
	"cineverse/internal/resilience/retry"
)

// MovieSearcher lists the provider's candidates for a title.
type MovieSearcher interface {
	SearchMovies(ctx context.Context, title string) ([]entity.MovieSummary, error)
}

// LoadStats summarizes one catalog load.
type LoadStats struct {
	Entries    int
	Resolved   int
	Unresolved int
	Invalid    int
}

// Loader resolves award catalog entries against the movie provider and
// replaces the ceremony's stored records with the result.
type Loader struct {
	Searcher MovieSearcher
	Repo     repository.AwardRepository
	Retry    retry.Config
}

// NewLoader creates a Loader that retries repository writes with retry.DBConfig.
func NewLoader(searcher MovieSearcher, repo repository.AwardRepository) *Loader {
	return &Loader{Searcher: searcher, Repo: repo, Retry: retry.DBConfig()}
}

// Load resolves every entry in catalog order. Entries that fail validation or
// have no provider match are skipped and counted. The ceremony is replaced
// even when nothing resolved, so a reload reflects the catalog exactly.
func (l *Loader) Load(ctx context.Context, ceremony string, entries []entity.AwardEntry) (LoadStats, error) {
	ctx, span := tracing.Start(ctx, "awards.Load",
		attribute.String("award.ceremony", ceremony),
		attribute.Int("award.entries", len(entries)))
	defer span.End()
	logger := logging.FromContext(ctx)

	stats := LoadStats{Entries: len(entries)}
	records := make([]entity.FilmAwardRecord, 0, len(entries))

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			tracing.Fail(span, err)
			return stats, fmt.Errorf("load %s catalog: %w", ceremony, err)
		}
		if err := e.Validate(); err != nil {
			stats.Invalid++
			metrics.RecordCatalogEntry(ceremony, "invalid")
			logger.Warn("award catalog entry rejected",
				slog.String("ceremony", ceremony),
				slog.String("title", e.Title),
				slog.Int("year", e.Year),
				slog.Any("error", err))
			continue
		}

		rec, err := l.resolve(ctx, ceremony, e)
		if err != nil {
			stats.Unresolved++
			metrics.RecordCatalogEntry(ceremony, "unresolved")
			level := slog.LevelInfo
			if !errors.Is(err, entity.ErrNotFound) {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, "award catalog entry unresolved",
				slog.String("ceremony", ceremony),
				slog.String("title", e.Title),
				slog.Int("year", e.Year),
				slog.Any("error", err))
			continue
		}
		stats.Resolved++
		metrics.RecordCatalogEntry(ceremony, "resolved")
		records = append(records, rec)
	}

	err := retry.WithBackoff(ctx, l.Retry, func() error {
		return l.Repo.ReplaceCeremony(ctx, ceremony, records)
	})
	if err != nil {
		tracing.Fail(span, err)
		return stats, fmt.Errorf("store %s catalog: %w", ceremony, err)
	}

	logger.Info("award catalog loaded",
		slog.String("ceremony", ceremony),
		slog.Int("entries", stats.Entries),
		slog.Int("resolved", stats.Resolved),
		slog.Int("unresolved", stats.Unresolved),
		slog.Int("invalid", stats.Invalid))
	return stats, nil
}

func (l *Loader) resolve(ctx context.Context, ceremony string, e entity.AwardEntry) (entity.FilmAwardRecord, error) {
	candidates, err := l.Searcher.SearchMovies(ctx, e.Title)
	if err != nil {
		return entity.FilmAwardRecord{}, err
	}
	m, ok := PickRelease(candidates, e.Year)
	if !ok {
		return entity.FilmAwardRecord{}, fmt.Errorf("search %q: %w", e.Title, entity.ErrNotFound)
	}
	year := e.Year
	if m.ReleaseDate == "" {
		m.ReleaseDate = fmt.Sprintf("%d-01-01", year)
	}
	return entity.FilmAwardRecord{
		Ceremony:    ceremony,
		ExternalID:  m.ID,
		Title:       e.Title,
		PosterURL:   m.PosterURL,
		Overview:    m.Overview,
		ReleaseDate: m.ReleaseDate,
		AwardYear:   &year,
		VoteAverage: m.VoteAverage,
		Winner:      entity.WinnerFlagOf(e.Winner),
	}, nil
}

// PickRelease chooses the candidate released the year before the ceremony,
// the usual eligibility window, falling back to the first candidate.
func PickRelease(candidates []entity.MovieSummary, awardYear int) (entity.MovieSummary, bool) {
	if len(candidates) == 0 {
		return entity.MovieSummary{}, false
	}
	want := strconv.Itoa(awardYear - 1)
	for _, c := range candidates {
		if strings.Contains(c.ReleaseDate, want) {
			return c, true
		}
	}
	return candidates[0], true
}
