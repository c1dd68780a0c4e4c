package http

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cineverse/internal/handler/http/award"
	"cineverse/internal/handler/http/collection"
	"cineverse/internal/handler/http/requestid"
	"cineverse/internal/observability/tracing"
	"cineverse/internal/repository"
	awardsUC "cineverse/internal/usecase/awards"
)

// RouterConfig holds the dependencies of the API router.
type RouterConfig struct {
	DB        *sql.DB
	Awards    *awardsUC.Service
	Snapshots repository.SnapshotRepository
	Logger    *slog.Logger
	Version   string
}

// NewRouter builds the API handler with its middleware stack:
// request ID, tracing, logging, panic recovery and metrics, outermost first.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /health", &HealthHandler{DB: cfg.DB, Version: cfg.Version})
	mux.Handle("GET /health/ready", &ReadyHandler{DB: cfg.DB})
	mux.Handle("GET /health/live", LiveHandler{})
	mux.Handle("GET /metrics", promhttp.Handler())

	award.Register(mux, cfg.Awards)
	collection.Register(mux, cfg.Snapshots)

	return Chain(mux,
		requestid.Middleware,
		tracing.Middleware,
		Logging(cfg.Logger),
		Recover(cfg.Logger),
		Metrics,
	)
}
