// Package awards groups award-eligible films into decade and year buckets,
// elects a winner per year, and loads award catalogs through the movie
// metadata provider.
package awards

import (
	"log/slog"
	"sort"
	"strconv"

	"cineverse/internal/domain/entity"
	"cineverse/internal/observability/metrics"
)

// Engine runs the grouping passes. The zero value logs to slog.Default.
type Engine struct {
	Logger *slog.Logger
}

// NewEngine creates an Engine that reports duplicate winners to logger.
func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{Logger: logger}
}

// Group partitions records into decade and year buckets with the default engine.
func Group(records []entity.FilmAwardRecord) []entity.PeriodBucket {
	return (&Engine{}).Group(records)
}

// Group partitions records into decade and year buckets, classifies explicit
// winners, elects a fallback winner where none was flagged, and orders the
// result with the most recent decade and year first.
//
// The input slice is not modified. Every record ends up in exactly one year
// bucket, either as its winner or as one of its nominees.
func (e *Engine) Group(records []entity.FilmAwardRecord) []entity.PeriodBucket {
	tree := bucketize(records)
	for _, d := range tree.decades {
		for _, y := range d.years {
			y.bucket = e.classify(y)
			electFallback(&y.bucket)
		}
	}
	return order(tree)
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

type yearSlot struct {
	year    string
	records []entity.FilmAwardRecord
	bucket  entity.YearBucket
}

type decadeSlot struct {
	decade string
	years  []*yearSlot
	index  map[string]*yearSlot
}

type bucketTree struct {
	decades []*decadeSlot
	index   map[string]*decadeSlot
}

// bucketize inserts every record into tree[decade][year], creating buckets
// on first encounter and preserving first-seen order at both levels.
func bucketize(records []entity.FilmAwardRecord) *bucketTree {
	tree := &bucketTree{index: make(map[string]*decadeSlot)}
	for _, r := range records {
		year := r.Year()
		decade := entity.DecadeOf(year)

		d, ok := tree.index[decade]
		if !ok {
			d = &decadeSlot{decade: decade, index: make(map[string]*yearSlot)}
			tree.index[decade] = d
			tree.decades = append(tree.decades, d)
		}
		y, ok := d.index[year]
		if !ok {
			y = &yearSlot{year: year}
			d.index[year] = y
			d.years = append(d.years, y)
		}
		y.records = append(y.records, r)
	}
	return tree
}

// classify splits a year's records into the explicit winner and nominees.
// Only the first record flagged as winner is kept; later ones are demoted to
// nominees and reported.
func (e *Engine) classify(y *yearSlot) entity.YearBucket {
	b := entity.YearBucket{Year: y.year, Nominees: make([]entity.FilmAwardRecord, 0, len(y.records))}
	for _, r := range y.records {
		if r.Winner != entity.WinnerTrue {
			b.Nominees = append(b.Nominees, r)
			continue
		}
		if b.Winner == nil {
			w := r
			b.Winner = &w
			continue
		}
		e.logger().Warn("multiple explicit winners in one year, demoting to nominee",
			slog.String("year", y.year),
			slog.String("ceremony", r.Ceremony),
			slog.String("kept", b.Winner.Title),
			slog.String("demoted", r.Title))
		metrics.RecordGroupingAmbiguity()
		b.Nominees = append(b.Nominees, r)
	}
	return b
}

// electFallback promotes the highest-rated nominee when no winner was
// flagged. Nominees are stably sorted by vote average descending first, so
// ties keep encounter order. A bucket without nominees is left untouched.
func electFallback(b *entity.YearBucket) {
	if b.Winner != nil || len(b.Nominees) == 0 {
		return
	}
	sort.SliceStable(b.Nominees, func(i, j int) bool {
		return b.Nominees[i].VoteAverage > b.Nominees[j].VoteAverage
	})
	w := b.Nominees[0]
	b.Winner = &w
	b.Nominees = b.Nominees[1:]
}

// order emits decades and years in descending order.
func order(tree *bucketTree) []entity.PeriodBucket {
	out := make([]entity.PeriodBucket, 0, len(tree.decades))
	for _, d := range tree.decades {
		years := make([]entity.YearBucket, 0, len(d.years))
		for _, y := range d.years {
			years = append(years, y.bucket)
		}
		sort.SliceStable(years, func(i, j int) bool {
			return descending(years[i].Year, years[j].Year)
		})
		out = append(out, entity.PeriodBucket{Decade: d.decade, Years: years})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return descending(out[i].Decade, out[j].Decade)
	})
	return out
}

// descending compares numerically when both keys carry a leading number
// ("1990s", "2021") and lexically otherwise, so "Unknown" sorts first.
func descending(a, b string) bool {
	na, okA := leadingInt(a)
	nb, okB := leadingInt(b)
	if okA && okB && na != nb {
		return na > nb
	}
	return a > b
}

func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}
