// Package collection serves the latest enrichment snapshot of a collection.
package collection

import (
	"net/http"

	"cineverse/internal/repository"
)

// Register adds the collection routes to mux.
func Register(mux *http.ServeMux, repo repository.SnapshotRepository) {
	mux.Handle("GET /collections/{name}", GetHandler{Repo: repo})
	mux.Handle("GET /collections/{name}/stats", StatsHandler{Repo: repo})
}
