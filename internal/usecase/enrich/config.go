package enrich

import (
	"cineverse/internal/pkg/config"
)

const (
	DefaultParallelism = 4
	MaxParallelism     = 32
)

// Config controls the pipeline's fan-out.
type Config struct {
	// Parallelism bounds the number of titles resolved concurrently.
	Parallelism int
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{Parallelism: DefaultParallelism}
}

// LoadConfigFromEnv reads ENRICH_PARALLELISM (1-32, default 4).
func LoadConfigFromEnv() (Config, []string) {
	p := config.LoadEnvInt("ENRICH_PARALLELISM", DefaultParallelism, config.IntRange(1, MaxParallelism))
	return Config{Parallelism: p.Value}, p.Warnings
}
