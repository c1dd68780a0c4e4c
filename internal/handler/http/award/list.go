package award

import (
	"net/http"

	"cineverse/internal/handler/http/respond"
	awardsUC "cineverse/internal/usecase/awards"
)

type ListHandler struct{ Svc *awardsUC.Service }

// ServeHTTP lists the ceremonies with stored award records.
// @Summary      List ceremonies
// @Tags         awards
// @Produce      json
// @Success      200 {object} CeremoniesDTO
// @Failure      500 {string} string "internal server error"
// @Router       /awards [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ceremonies, err := h.Svc.Ceremonies(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	if ceremonies == nil {
		ceremonies = []string{}
	}
	respond.JSON(w, http.StatusOK, CeremoniesDTO{Ceremonies: ceremonies})
}
