// Package entity defines the core domain entities of the enrichment backend.
// It contains the subjects and movie records produced by enrichment, the award
// records consumed by grouping, and the domain-specific errors shared by both.
package entity

import (
	"fmt"
	"strings"
	"time"
)

// Subject is a named entity (usually an actor) that owns an ordered list of
// movie titles to enrich. Titles are resolved in declaration order.
type Subject struct {
	Name   string   `json:"name" yaml:"name"`
	Titles []string `json:"titles" yaml:"titles"`
}

// Collection groups the subjects enriched together in one run.
type Collection struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description"`
	Subjects    []Subject `json:"subjects" yaml:"subjects"`
}

// Ratings holds the three numeric ratings in their provider scales.
// IMDb is 0-10, RottenTomatoes and Metacritic are 0-100. A zero value means
// the rating was unavailable.
type Ratings struct {
	IMDb           float64 `json:"imdb"`
	RottenTomatoes float64 `json:"rotten_tomatoes"`
	Metacritic     float64 `json:"metacritic"`
}

// Location is a synthetic map placement for a movie.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// MovieRecord is the merged, per-title result of enrichment.
// A record only exists when the primary metadata lookup succeeded.
type MovieRecord struct {
	Title          string   `json:"title"`
	ExternalID     int64    `json:"external_id,omitempty"`
	PosterURL      string   `json:"poster_url,omitempty"`
	Overview       string   `json:"overview,omitempty"`
	ReleaseDate    string   `json:"release_date,omitempty"`
	VoteAverage    float64  `json:"vote_average"`
	Ratings        Ratings  `json:"ratings"`
	RuntimeMinutes int      `json:"runtime_minutes"`
	Trivia         string   `json:"trivia,omitempty"`
	VideoKey       string   `json:"video_key,omitempty"`
	Location       Location `json:"location"`
}

// PersonProfile is the result of a person search.
type PersonProfile struct {
	ID         int64
	Name       string
	ProfileURL string
}

// MovieSummary is the result of a movie search.
type MovieSummary struct {
	ID          int64
	Title       string
	PosterURL   string
	Overview    string
	ReleaseDate string
	VoteAverage float64
}

// Video is one entry of a movie's appended video list.
type Video struct {
	Key  string
	Name string
	Site string
	Type string
}

// MovieDetail is the result of a movie detail lookup with appended videos.
type MovieDetail struct {
	ID      int64
	Runtime int
	Videos  []Video
}

// TrailerKey returns the key of the first YouTube trailer, falling back to
// the first YouTube video of any type. It returns "" when there is none.
func (d MovieDetail) TrailerKey() string {
	fallback := ""
	for _, v := range d.Videos {
		if !strings.EqualFold(v.Site, "YouTube") || v.Key == "" {
			continue
		}
		if strings.EqualFold(v.Type, "Trailer") {
			return v.Key
		}
		if fallback == "" {
			fallback = v.Key
		}
	}
	return fallback
}

// RatingRecord is the result of a ratings lookup.
// Numeric fields are zero when the provider did not report them.
type RatingRecord struct {
	Title          string
	IMDb           float64
	RottenTomatoes float64
	Metacritic     float64
	Runtime        string
	RuntimeMinutes int
	Plot           string
	Awards         string
}

// Trivia composes the human-readable trivia line shown next to a movie.
func (r RatingRecord) Trivia() string {
	return fmt.Sprintf("Plot: %s | Runtime: %s | Awards: %s | IMDb: %s/10 | RT: %s%% | Metacritic: %s/100",
		orNA(r.Plot), orNA(r.Runtime), orNA(r.Awards),
		formatScore(r.IMDb), formatScore(r.RottenTomatoes), formatScore(r.Metacritic))
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func formatScore(v float64) string {
	if v == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%g", v)
}

// SubjectResult is the enrichment output of one subject: its movie records in
// declaration order and the aggregate statistics over them.
type SubjectResult struct {
	Name       string        `json:"name"`
	ProfileURL string        `json:"profile_url,omitempty"`
	Movies     []MovieRecord `json:"movies"`
	Stats      AggregateStat `json:"stats"`
}

// Movie returns the record stored under title.
func (s SubjectResult) Movie(title string) (MovieRecord, bool) {
	for _, m := range s.Movies {
		if m.Title == title {
			return m, true
		}
	}
	return MovieRecord{}, false
}

// Snapshot is a persisted enrichment run for one collection.
type Snapshot struct {
	ID         int64           `json:"id"`
	Collection string          `json:"collection"`
	RunID      string          `json:"run_id"`
	Subjects   []SubjectResult `json:"subjects"`
	CreatedAt  time.Time       `json:"created_at"`
}
