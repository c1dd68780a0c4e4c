package collection

import (
	"net/http"

	"cineverse/internal/domain/entity"
	"cineverse/internal/handler/http/respond"
	"cineverse/internal/repository"
)

type StatsHandler struct{ Repo repository.SnapshotRepository }

// ServeHTTP returns the per-subject aggregate statistics of the latest
// snapshot, in subject order.
// @Summary      Collection statistics
// @Tags         collections
// @Produce      json
// @Param        name    path  string true  "collection name"
// @Param        subject query string false "subject name"
// @Success      200 {object} StatsDTO
// @Failure      404 {string} string "not found"
// @Router       /collections/{name}/stats [get]
func (h StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snap, err := latest(r.Context(), h.Repo, r.PathValue("name"))
	if err != nil {
		respond.SafeError(w, respond.StatusOf(err), err)
		return
	}

	subjects, err := filterSubjects(snap.Subjects, r.URL.Query().Get("subject"))
	if err != nil {
		respond.SafeError(w, http.StatusNotFound, err)
		return
	}
	out := make([]entity.AggregateStat, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, s.Stats)
	}
	respond.JSON(w, http.StatusOK, StatsDTO{
		Collection: snap.Collection,
		RunID:      snap.RunID,
		CreatedAt:  snap.CreatedAt,
		Stats:      out,
	})
}
