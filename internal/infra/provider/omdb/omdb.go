// Package omdb is the ratings client. It resolves a title to its IMDb,
// Rotten Tomatoes and Metacritic scores plus runtime, plot and awards text.
package omdb

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
const Name = "omdb"

// Client queries the OMDb API by title.
type Client struct {
	caller *provider.Caller
}

// New creates a client from the provider configuration. httpClient may be nil.
func New(cfg provider.Config, httpClient *http.Client) (*Client, error) {
	caller, err := provider.NewCaller(provider.CallerConfig{
		Name:       Name,
		BaseURL:    cfg.OMDbBaseURL,
		KeyParam:   "apikey",
		Key:        cfg.OMDbAPIKey,
		Timeout:    cfg.Timeout,
		RPS:        cfg.RPS,
		Burst:      cfg.Burst,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, err
	}
	return &Client{caller: caller}, nil
}

type rating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

type titleResponse struct {
	Title      string   `json:"Title"`
	Runtime    string   `json:"Runtime"`
	Plot       string   `json:"Plot"`
	Awards     string   `json:"Awards"`
	IMDbRating string   `json:"imdbRating"`
	Metascore  string   `json:"Metascore"`
	Ratings    []rating `json:"Ratings"`
	Response   string   `json:"Response"`
	Error      string   `json:"Error"`
}

// Ratings looks up title and extracts its ratings. Ratings the provider did
// not report are zero.
func (c *Client) Ratings(ctx context.Context, title string) (entity.RatingRecord, error) {
	var resp titleResponse
	err := c.caller.GetJSON(ctx, provider.Request{
		Operation: "ratings",
		Key:       title,
		Path:      "/",
		Query:     url.Values{"t": {title}},
	}, &resp, func() bool { return strings.EqualFold(resp.Response, "True") })
	if err != nil {
		return entity.RatingRecord{}, err
	}
	return toRecord(resp), nil
}

func toRecord(resp titleResponse) entity.RatingRecord {
	r := entity.RatingRecord{
		Title:   resp.Title,
		Runtime: clean(resp.Runtime),
		Plot:    clean(resp.Plot),
		Awards:  clean(resp.Awards),
	}
	r.RuntimeMinutes = ParseRuntime(resp.Runtime)

	for _, rt := range resp.Ratings {
		switch rt.Source {
		case "Internet Movie Database":
			r.IMDb = ParseScore(rt.Value)
		case "Rotten Tomatoes":
			r.RottenTomatoes = ParseScore(rt.Value)
		case "Metacritic":
			r.Metacritic = ParseScore(rt.Value)
		}
	}
	if r.IMDb == 0 {
		r.IMDb = ParseScore(resp.IMDbRating)
	}
	if r.Metacritic == 0 {
		r.Metacritic = ParseScore(resp.Metascore)
	}
	return r
}

// ParseScore reads the numerator of "7.7/10", "95%" or "87/100".
// Unparsable values, including "N/A", yield 0.
func ParseScore(v string) float64 {
	v = strings.TrimSpace(v)
	if i := strings.IndexByte(v, '/'); i >= 0 {
		v = v[:i]
	}
	v = strings.TrimSuffix(v, "%")
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// ParseRuntime reads the minutes of a runtime such as "110 min".
// Unparsable values yield 0.
func ParseRuntime(v string) int {
	fields := strings.Fields(v)
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func clean(s string) string {
	s = strings.TrimSpace(s)
	if s == "N/A" {
		return ""
	}
	return s
}
