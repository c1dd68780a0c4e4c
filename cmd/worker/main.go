package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"cineverse/internal/config"
	"cineverse/internal/handler/http/respond"
	pgRepo "cineverse/internal/infra/adapter/persistence/postgres"
	"cineverse/internal/infra/db"
	"cineverse/internal/infra/provider"
	"cineverse/internal/infra/provider/omdb"
	"cineverse/internal/infra/provider/tmdb"
	workerPkg "cineverse/internal/infra/worker"
	"cineverse/internal/observability/logging"
	"cineverse/internal/resilience/retry"
	awardsUC "cineverse/internal/usecase/awards"
	"cineverse/internal/usecase/enrich"
)

func main() {
	once := flag.Bool("once", false, "Run one enrichment pass and exit")
	loadAwards := flag.Bool("load-awards", false, "Resolve the award catalog (AWARDS_FILE), store it and exit")
	flag.Parse()

	logger := initLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workerMetrics := workerPkg.NewWorkerMetrics()
	workerConfig := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err := workerConfig.Validate(); err != nil {
		logger.Error("invalid worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("enrich_timeout", workerConfig.EnrichTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	database := initDatabase(ctx, logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	tmdbClient, omdbClient := initProviders(logger)

	if *loadAwards {
		if err := runAwardLoad(ctx, logger, workerConfig.AwardsFile, tmdbClient, database); err != nil {
			logger.Error("award catalog load failed", slog.String("error", respond.SanitizeError(err)))
			os.Exit(1)
		}
		return
	}

	job, err := newEnrichJob(logger, workerConfig, workerMetrics, tmdbClient, omdbClient, database)
	if err != nil {
		logger.Error("failed to set up enrichment job", slog.Any("error", err))
		os.Exit(1)
	}

	if *once {
		if err := job.Run(ctx); err != nil {
			os.Exit(1)
		}
		return
	}

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	runCron(ctx, logger, job, workerConfig, healthServer)
}

func initLogger() *slog.Logger {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env", slog.Any("error", err))
	}
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

func initDatabase(ctx context.Context, logger *slog.Logger) *sql.DB {
	database, err := db.Open(ctx)
	if err != nil {
		logger.Error("failed to open database", slog.String("error", respond.SanitizeError(err)))
		os.Exit(1)
	}
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

func initProviders(logger *slog.Logger) (*tmdb.Client, *omdb.Client) {
	cfg, warnings := provider.LoadConfigFromEnv()
	for _, w := range warnings {
		logger.Warn("provider configuration fallback applied", slog.String("warning", w))
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid provider configuration", slog.Any("error", err))
		os.Exit(1)
	}

	tmdbClient, err := tmdb.New(cfg, nil)
	if err != nil {
		logger.Error("failed to create TMDB client", slog.Any("error", err))
		os.Exit(1)
	}
	omdbClient, err := omdb.New(cfg, nil)
	if err != nil {
		logger.Error("failed to create OMDb client", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("provider clients initialized",
		slog.Float64("rps", cfg.RPS),
		slog.Int("burst", cfg.Burst),
		slog.Duration("timeout", cfg.Timeout))
	return tmdbClient, omdbClient
}

func newEnrichJob(
	logger *slog.Logger,
	cfg *workerPkg.WorkerConfig,
	metrics *workerPkg.WorkerMetrics,
	tmdbClient *tmdb.Client,
	omdbClient *omdb.Client,
	database *sql.DB,
) (*workerPkg.EnrichJob, error) {
	enrichConfig, warnings := enrich.LoadConfigFromEnv()
	for _, w := range warnings {
		logger.Warn("enrichment configuration fallback applied", slog.String("warning", w))
	}
	svc, err := enrich.NewService(enrich.FromClients(tmdbClient, omdbClient), enrichConfig)
	if err != nil {
		return nil, err
	}

	collections, err := config.LoadCollections(cfg.CollectionsFile)
	if err != nil {
		return nil, err
	}
	logger.Info("collections loaded",
		slog.String("file", cfg.CollectionsFile),
		slog.Int("collections", len(collections)),
		slog.Int("parallelism", enrichConfig.Parallelism))

	return &workerPkg.EnrichJob{
		Enricher:    svc,
		Snapshots:   pgRepo.NewSnapshotRepo(database),
		Collections: collections,
		Timeout:     cfg.EnrichTimeout,
		Metrics:     metrics,
		Logger:      logger,
		Retry:       retry.DBConfig(),
	}, nil
}

func runAwardLoad(ctx context.Context, logger *slog.Logger, path string, tmdbClient *tmdb.Client, database *sql.DB) error {
	catalog, err := config.LoadAwardCatalog(path)
	if err != nil {
		return err
	}
	loader := awardsUC.NewLoader(tmdbClient, pgRepo.NewAwardRepo(database))
	stats, err := loader.Load(ctx, catalog.Ceremony, catalog.Entries)
	if err != nil {
		return err
	}
	logger.Info("award catalog loaded",
		slog.String("ceremony", catalog.Ceremony),
		slog.Int("entries", stats.Entries),
		slog.Int("resolved", stats.Resolved),
		slog.Int("unresolved", stats.Unresolved),
		slog.Int("invalid", stats.Invalid))
	return nil
}

// runCron schedules job and blocks until ctx is cancelled. Overlapping runs
// are skipped; a running job is given 30s to finish on shutdown.
func runCron(ctx context.Context, logger *slog.Logger, job *workerPkg.EnrichJob, cfg *workerPkg.WorkerConfig, healthServer *workerPkg.HealthServer) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	_, err = c.AddFunc(cfg.CronSchedule, func() {
		// errors are logged and counted by the job
		_ = job.Run(ctx)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))

	<-ctx.Done()
	healthServer.SetReady(false)
	logger.Info("shutting down worker...")

	select {
	case <-c.Stop().Done():
	case <-time.After(30 * time.Second):
		logger.Warn("enrichment job still running at shutdown")
	}
	logger.Info("worker stopped")
}
