package provider

import (
	"fmt"
	"time"

	"cineverse/internal/domain/entity"
	"cineverse/internal/pkg/config"
)

// Default provider endpoints.
const (
	DefaultTMDBBaseURL      = "https://api.themoviedb.org/3"
	DefaultTMDBImageBaseURL = "https://image.tmdb.org/t/p/w500"
	DefaultOMDbBaseURL      = "https://www.omdbapi.com"
)

// Config holds credentials and transport settings for the provider clients.
// Credentials are injected from the environment and never compiled in.
type Config struct {
	TMDBAPIKey       string
	OMDbAPIKey       string
	TMDBBaseURL      string
	TMDBImageBaseURL string
	OMDbBaseURL      string

	// Timeout bounds a single provider request.
	Timeout time.Duration

	// RPS and Burst size the token bucket shared by all calls to one provider.
	RPS   float64
	Burst int
}

// DefaultConfig returns the production endpoints without credentials.
func DefaultConfig() Config {
	return Config{
		TMDBBaseURL:      DefaultTMDBBaseURL,
		TMDBImageBaseURL: DefaultTMDBImageBaseURL,
		OMDbBaseURL:      DefaultOMDbBaseURL,
		Timeout:          10 * time.Second,
		RPS:              4,
		Burst:            4,
	}
}

// Validate checks the configuration. Missing credentials are an error:
// every lookup would otherwise fail with 401.
func (c Config) Validate() error {
	if c.TMDBAPIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required")
	}
	if c.OMDbAPIKey == "" {
		return fmt.Errorf("OMDB_API_KEY is required")
	}
	for _, u := range []struct{ env, value string }{
		{"TMDB_BASE_URL", c.TMDBBaseURL},
		{"TMDB_IMAGE_BASE_URL", c.TMDBImageBaseURL},
		{"OMDB_BASE_URL", c.OMDbBaseURL},
	} {
		if err := entity.ValidateBaseURL(u.value); err != nil {
			return fmt.Errorf("%s: %w", u.env, err)
		}
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.RPS <= 0 {
		return fmt.Errorf("rps must be positive, got %g", c.RPS)
	}
	if c.Burst < 1 {
		return fmt.Errorf("burst must be at least 1, got %d", c.Burst)
	}
	return nil
}

// LoadConfigFromEnv reads the provider configuration. Invalid optional values
// fall back to their defaults and are returned as warnings.
//
// Environment variables:
//   - TMDB_API_KEY, OMDB_API_KEY: credentials (required)
//   - TMDB_BASE_URL, TMDB_IMAGE_BASE_URL, OMDB_BASE_URL: endpoint overrides
//   - PROVIDER_TIMEOUT: per request timeout (default 10s, 1s-2m)
//   - PROVIDER_RPS: requests per second per provider (default 4, 0.1-50)
//   - PROVIDER_BURST: token bucket size (default 4, 1-50)
func LoadConfigFromEnv() (Config, []string) {
	def := DefaultConfig()
	cfg := Config{
		TMDBAPIKey:       config.LoadEnvString("TMDB_API_KEY", ""),
		OMDbAPIKey:       config.LoadEnvString("OMDB_API_KEY", ""),
		TMDBBaseURL:      config.LoadEnvString("TMDB_BASE_URL", def.TMDBBaseURL),
		TMDBImageBaseURL: config.LoadEnvString("TMDB_IMAGE_BASE_URL", def.TMDBImageBaseURL),
		OMDbBaseURL:      config.LoadEnvString("OMDB_BASE_URL", def.OMDbBaseURL),
	}

	var warnings []string
	timeout := config.LoadEnvDuration("PROVIDER_TIMEOUT", def.Timeout, config.DurationRange(time.Second, 2*time.Minute))
	rps := config.LoadEnvFloat("PROVIDER_RPS", def.RPS, config.FloatRange(0.1, 50))
	burst := config.LoadEnvInt("PROVIDER_BURST", def.Burst, config.IntRange(1, 50))
	warnings = append(warnings, timeout.Warnings...)
	warnings = append(warnings, rps.Warnings...)
	warnings = append(warnings, burst.Warnings...)

	cfg.Timeout = timeout.Value
	cfg.RPS = rps.Value
	cfg.Burst = burst.Value
	return cfg, warnings
}
