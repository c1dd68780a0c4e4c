// Package award serves award listings grouped by decade and year.
package award

import (
	"net/http"

	awardsUC "cineverse/internal/usecase/awards"
)

// Register adds the award routes to mux.
func Register(mux *http.ServeMux, svc *awardsUC.Service) {
	mux.Handle("GET /awards", ListHandler{Svc: svc})
	mux.Handle("GET /awards/{ceremony}", GroupedHandler{Svc: svc})
}
