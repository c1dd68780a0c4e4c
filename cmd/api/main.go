package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	hhttp "cineverse/internal/handler/http"
	"cineverse/internal/handler/http/respond"
	pgRepo "cineverse/internal/infra/adapter/persistence/postgres"
	"cineverse/internal/infra/db"
	"cineverse/internal/observability/logging"
	"cineverse/internal/pkg/config"
	awardsUC "cineverse/internal/usecase/awards"
)

// @title           CineVerse API
// @version         1.0
// @description     Enriched movie collections and award listings grouped by decade and year.
// @BasePath        /

// serverConfig holds the HTTP server settings.
type serverConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func main() {
	logger := initLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database := initDatabase(ctx, logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	version := config.LoadEnvString("VERSION", "dev")
	handler := hhttp.NewRouter(hhttp.RouterConfig{
		DB:        database,
		Awards:    awardsUC.NewService(pgRepo.NewAwardRepo(database), awardsUC.NewEngine(logger)),
		Snapshots: pgRepo.NewSnapshotRepo(database),
		Logger:    logger,
		Version:   version,
	})

	runServer(ctx, logger, handler, loadServerConfig(logger), version)
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

// loadServerConfig reads API_PORT, API_READ_TIMEOUT, API_WRITE_TIMEOUT and
// API_SHUTDOWN_TIMEOUT, falling back to defaults on invalid values.
func loadServerConfig(logger *slog.Logger) serverConfig {
	port := config.LoadEnvInt("API_PORT", 8080, config.IntRange(1, 65535))
	read := config.LoadEnvDuration("API_READ_TIMEOUT", 10*time.Second, config.DurationRange(time.Second, time.Minute))
	write := config.LoadEnvDuration("API_WRITE_TIMEOUT", 30*time.Second, config.DurationRange(time.Second, 5*time.Minute))
	shutdown := config.LoadEnvDuration("API_SHUTDOWN_TIMEOUT", 5*time.Second, config.DurationRange(time.Second, time.Minute))

	for _, ws := range [][]string{port.Warnings, read.Warnings, write.Warnings, shutdown.Warnings} {
		for _, w := range ws {
			logger.Warn("server configuration fallback applied", slog.String("warning", w))
		}
	}
	return serverConfig{
		Port:            port.Value,
		ReadTimeout:     read.Value,
		WriteTimeout:    write.Value,
		ShutdownTimeout: shutdown.Value,
	}
}

func runServer(ctx context.Context, logger *slog.Logger, handler http.Handler, cfg serverConfig, version string) {
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server starting", slog.String("addr", addr), slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
