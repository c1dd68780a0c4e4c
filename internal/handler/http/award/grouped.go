package award

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"cineverse/internal/handler/http/respond"
	awardsUC "cineverse/internal/usecase/awards"
)

var ceremonyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,31}$`)

var errInvalidCeremony = errors.New("invalid ceremony: must be 1-32 lowercase letters, digits, '-' or '_'")

type GroupedHandler struct{ Svc *awardsUC.Service }

// ServeHTTP returns the ceremony's records grouped by decade and year, each
// year with its elected winner. An unknown ceremony yields no periods.
// @Summary      Grouped award listing
// @Tags         awards
// @Produce      json
// @Param        ceremony path string true "ceremony key, e.g. bafta"
// @Success      200 {object} GroupedDTO
// @Failure      400 {string} string "invalid ceremony"
// @Failure      500 {string} string "internal server error"
// @Router       /awards/{ceremony} [get]
func (h GroupedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ceremony := strings.ToLower(strings.TrimSpace(r.PathValue("ceremony")))
	if !ceremonyPattern.MatchString(ceremony) {
		respond.SafeError(w, http.StatusBadRequest, errInvalidCeremony)
		return
	}

	periods, err := h.Svc.Grouped(r.Context(), ceremony)
	if err != nil {
		respond.SafeError(w, respond.StatusOf(err), err)
		return
	}
	respond.JSON(w, http.StatusOK, GroupedDTO{Ceremony: ceremony, Periods: periods})
}
