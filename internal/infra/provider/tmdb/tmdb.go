// Package tmdb is the movie and person metadata client. It serves the
// primary movie lookup, the per-subject profile lookup and the detail lookup
// with appended videos.
package tmdb

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"cineverse/internal/domain/entity"
	"cineverse/internal/infra/provider"
)

// Name is the provider label used in logs and metrics.
const Name = "tmdb"

// Client queries the TMDB v3 API.
type Client struct {
	caller    *provider.Caller
	imageBase string
}

// New creates a client from the provider configuration. httpClient may be nil.
func New(cfg provider.Config, httpClient *http.Client) (*Client, error) {
	caller, err := provider.NewCaller(provider.CallerConfig{
		Name:       Name,
		BaseURL:    cfg.TMDBBaseURL,
		KeyParam:   "api_key",
		Key:        cfg.TMDBAPIKey,
		Timeout:    cfg.Timeout,
		RPS:        cfg.RPS,
		Burst:      cfg.Burst,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, err
	}
	return &Client{caller: caller, imageBase: strings.TrimRight(cfg.TMDBImageBaseURL, "/")}, nil
}

type personResult struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ProfilePath string `json:"profile_path"`
}

type movieResult struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
}

type searchResponse[T any] struct {
	Results []T `json:"results"`
}

type videoResult struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

type detailResponse struct {
	ID      int64 `json:"id"`
	Runtime int   `json:"runtime"`
	Videos  struct {
		Results []videoResult `json:"results"`
	} `json:"videos"`
}

// SearchPerson returns the best match for a person name.
func (c *Client) SearchPerson(ctx context.Context, name string) (entity.PersonProfile, error) {
	var resp searchResponse[personResult]
	err := c.caller.GetJSON(ctx, provider.Request{
		Operation: "search_person",
		Key:       name,
		Path:      "/search/person",
		Query:     url.Values{"query": {name}},
	}, &resp, func() bool { return len(resp.Results) > 0 })
	if err != nil {
		return entity.PersonProfile{}, err
	}
	p := resp.Results[0]
	return entity.PersonProfile{ID: p.ID, Name: p.Name, ProfileURL: c.image(p.ProfilePath)}, nil
}

// SearchMovie returns the first search result for title.
func (c *Client) SearchMovie(ctx context.Context, title string) (entity.MovieSummary, error) {
	results, err := c.searchMovies(ctx, "search_movie", title)
	if err != nil {
		return entity.MovieSummary{}, err
	}
	return results[0], nil
}

// SearchMovies returns every result of a movie search that carries an id.
func (c *Client) SearchMovies(ctx context.Context, title string) ([]entity.MovieSummary, error) {
	return c.searchMovies(ctx, "search_movies", title)
}

func (c *Client) searchMovies(ctx context.Context, op, title string) ([]entity.MovieSummary, error) {
	var resp searchResponse[movieResult]
	var out []entity.MovieSummary
	err := c.caller.GetJSON(ctx, provider.Request{
		Operation: op,
		Key:       title,
		Path:      "/search/movie",
		Query:     url.Values{"query": {title}},
	}, &resp, func() bool {
		for _, m := range resp.Results {
			if m.ID == 0 {
				continue
			}
			out = append(out, c.summary(m))
		}
		return len(out) > 0
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MovieDetail returns runtime and videos for a movie id.
func (c *Client) MovieDetail(ctx context.Context, id int64) (entity.MovieDetail, error) {
	var resp detailResponse
	key := strconv.FormatInt(id, 10)
	err := c.caller.GetJSON(ctx, provider.Request{
		Operation: "movie_detail",
		Key:       key,
		Path:      "/movie/" + key,
		Query:     url.Values{"append_to_response": {"videos"}},
	}, &resp, func() bool { return resp.ID != 0 })
	if err != nil {
		return entity.MovieDetail{}, err
	}
	d := entity.MovieDetail{ID: resp.ID, Runtime: resp.Runtime}
	for _, v := range resp.Videos.Results {
		d.Videos = append(d.Videos, entity.Video{Key: v.Key, Name: v.Name, Site: v.Site, Type: v.Type})
	}
	return d, nil
}

func (c *Client) summary(m movieResult) entity.MovieSummary {
	return entity.MovieSummary{
		ID:          m.ID,
		Title:       m.Title,
		PosterURL:   c.image(m.PosterPath),
		Overview:    m.Overview,
		ReleaseDate: m.ReleaseDate,
		VoteAverage: m.VoteAverage,
	}
}

func (c *Client) image(path string) string {
	if path == "" {
		return ""
	}
	return c.imageBase + "/" + strings.TrimLeft(path, "/")
}
