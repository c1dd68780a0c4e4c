package collection

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cineverse/internal/domain/entity"
	"cineverse/internal/handler/http/respond"
	"cineverse/internal/repository"
)

var errInvalidName = errors.New("invalid collection name: must be 1-64 characters")

type GetHandler struct{ Repo repository.SnapshotRepository }

// ServeHTTP returns the latest snapshot of a collection. ?subject= narrows
// it to one subject.
// @Summary      Latest collection snapshot
// @Tags         collections
// @Produce      json
// @Param        name    path  string true  "collection name"
// @Param        subject query string false "subject name"
// @Success      200 {object} SnapshotDTO
// @Failure      404 {string} string "not found"
// @Router       /collections/{name} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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
	respond.JSON(w, http.StatusOK, SnapshotDTO{
		Collection: snap.Collection,
		RunID:      snap.RunID,
		CreatedAt:  snap.CreatedAt,
		Subjects:   subjects,
	})
}

func latest(ctx context.Context, repo repository.SnapshotRepository, raw string) (*entity.Snapshot, error) {
	name := strings.TrimSpace(raw)
	if name == "" || len(name) > 64 {
		return nil, fmt.Errorf("%w: %w", entity.ErrInvalidInput, errInvalidName)
	}
	snap, err := repo.Latest(ctx, name)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, fmt.Errorf("collection %q: %w", name, entity.ErrNotFound)
		}
		return nil, err
	}
	return snap, nil
}

func filterSubjects(all []entity.SubjectResult, name string) ([]entity.SubjectResult, error) {
	if all == nil {
		all = []entity.SubjectResult{}
	}
	if name == "" {
		return all, nil
	}
	for _, s := range all {
		if s.Name == name {
			return []entity.SubjectResult{s}, nil
		}
	}
	return nil, fmt.Errorf("subject %q: %w", name, entity.ErrNotFound)
}
