package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cineverse/internal/pkg/config"
)

// WorkerConfig holds the configuration of the enrichment worker.
//
// Configuration sources:
//   - Environment variables (loaded via LoadConfigFromEnv)
//   - Default values (provided by DefaultConfig)
type WorkerConfig struct {
	// CronSchedule is the cron expression of the enrichment job.
	// Default: "0 4 * * *" (every day at 4:00)
	CronSchedule string

	// Timezone is the IANA timezone name for cron scheduling.
	// Default: "UTC"
	Timezone string

	// EnrichTimeout bounds one full job, all collections included.
	// Range: 1m-4h. Default: 30 minutes
	EnrichTimeout time.Duration

	// HealthPort is the port of the health and metrics server.
	// Range: 1024-65535. Default: 9091
	HealthPort int

	// CollectionsFile is the YAML file listing the collections to enrich.
	CollectionsFile string

	// AwardsFile is the YAML award catalog loaded with -load-awards.
	AwardsFile string
}

// DefaultConfig returns a WorkerConfig with default values.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:    "0 4 * * *",
		Timezone:        "UTC",
		EnrichTimeout:   30 * time.Minute,
		HealthPort:      9091,
		CollectionsFile: "configs/collections.yaml",
		AwardsFile:      "configs/awards_bafta.yaml",
	}
}

// Validate checks every field and returns all failures joined together.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.DurationRange(time.Minute, 4*time.Hour)(c.EnrichTimeout); err != nil {
		errs = append(errs, fmt.Errorf("enrich timeout: %w", err))
	}
	if err := config.IntRange(1024, 65535)(c.HealthPort); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if strings.TrimSpace(c.CollectionsFile) == "" {
		errs = append(errs, errors.New("collections file: must not be empty"))
	}

	return errors.Join(errs...)
}

// LoadConfigFromEnv loads the worker configuration from environment
// variables. It never fails: an invalid value is replaced by its default,
// logged as a warning and counted in the config metrics.
//
// Environment variables:
//   - CRON_SCHEDULE: cron expression (default: "0 4 * * *")
//   - WORKER_TIMEZONE: IANA timezone name (default: "UTC")
//   - ENRICH_TIMEOUT: duration, 1m-4h (default: 30m)
//   - WORKER_HEALTH_PORT: integer 1024-65535 (default: 9091)
//   - COLLECTIONS_FILE: path (default: configs/collections.yaml)
//   - AWARDS_FILE: path (default: configs/awards_bafta.yaml)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) *WorkerConfig {
	cfg := DefaultConfig()
	fallbackApplied := false

	track := func(field string, fallback bool, warnings []string) {
		if !fallback {
			return
		}
		fallbackApplied = true
		metrics.RecordValidationError(field)
		metrics.RecordFallback(field)
		for _, w := range warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", w))
		}
	}

	schedule := config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = schedule.Value
	track("cron_schedule", schedule.FallbackApplied, schedule.Warnings)

	tz := config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = tz.Value
	track("timezone", tz.FallbackApplied, tz.Warnings)

	timeout := config.LoadEnvDuration("ENRICH_TIMEOUT", cfg.EnrichTimeout, config.DurationRange(time.Minute, 4*time.Hour))
	cfg.EnrichTimeout = timeout.Value
	track("enrich_timeout", timeout.FallbackApplied, timeout.Warnings)

	port := config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, config.IntRange(1024, 65535))
	cfg.HealthPort = port.Value
	track("health_port", port.FallbackApplied, port.Warnings)

	cfg.CollectionsFile = config.LoadEnvString("COLLECTIONS_FILE", cfg.CollectionsFile)
	cfg.AwardsFile = config.LoadEnvString("AWARDS_FILE", cfg.AwardsFile)

	metrics.SetFallbackActive(fallbackApplied)
	metrics.RecordLoadTimestamp()
	return &cfg
}
