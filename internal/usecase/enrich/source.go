// Package enrich resolves the titles of a collection's subjects against the
// metadata providers and merges the answers into movie records and
// per-subject statistics.
package enrich

import (
	"context"

	"cineverse/internal/domain/entity"
	"cineverse/internal/infra/provider/omdb"
	"cineverse/internal/infra/provider/tmdb"
)

// Source resolves a key to a record. A lookup that produced nothing returns
// an error matching entity.ErrNotFound.
type Source[K comparable, T any] interface {
	Resolve(ctx context.Context, key K) (T, error)
}

// SourceFunc adapts a function to a Source.
type SourceFunc[K comparable, T any] func(ctx context.Context, key K) (T, error)

// Resolve calls f(ctx, key).
func (f SourceFunc[K, T]) Resolve(ctx context.Context, key K) (T, error) {
	return f(ctx, key)
}

// Sources are the four lookups the pipeline performs.
type Sources struct {
	Person  Source[string, entity.PersonProfile]
	Movie   Source[string, entity.MovieSummary]
	Ratings Source[string, entity.RatingRecord]
	Detail  Source[int64, entity.MovieDetail]
}

// FromClients wires the TMDB and OMDb clients into Sources.
func FromClients(t *tmdb.Client, o *omdb.Client) Sources {
	return Sources{
		Person:  SourceFunc[string, entity.PersonProfile](t.SearchPerson),
		Movie:   SourceFunc[string, entity.MovieSummary](t.SearchMovie),
		Ratings: SourceFunc[string, entity.RatingRecord](o.Ratings),
		Detail:  SourceFunc[int64, entity.MovieDetail](t.MovieDetail),
	}
}

func (s Sources) complete() bool {
	return s.Person != nil && s.Movie != nil && s.Ratings != nil && s.Detail != nil
}
