// Package provider holds what the metadata provider clients share: the miss
// error taxonomy, configuration, and the rate limited, circuit protected
// HTTP caller. Provider specific clients live in the tmdb and omdb
// subpackages.
package provider

import (
	"errors"
	"fmt"
	"strings"

	"cineverse/internal/domain/entity"
)

// Reason classifies why a lookup produced no record.
type Reason string

const (
	ReasonNoMatch     Reason = "no_match"
	ReasonUnavailable Reason = "unavailable"
	ReasonHTTPStatus  Reason = "http_status"
	ReasonMalformed   Reason = "malformed"
	ReasonCircuitOpen Reason = "circuit_open"
)

// MissError reports a lookup that produced no record. Every MissError
// matches entity.ErrNotFound so callers can treat misses and outages alike
// while logs and metrics keep the precise Reason.
type MissError struct {
	Provider  string
	Operation string
	Key       string
	Reason    Reason
	Err       error
}

func (e *MissError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %q: %s", e.Provider, e.Operation, e.Key, e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *MissError) Unwrap() error { return e.Err }

// Is makes every MissError match entity.ErrNotFound.
func (e *MissError) Is(target error) bool {
	return target == entity.ErrNotFound
}

// ReasonOf extracts the miss reason from err, or "" when err is not a miss.
func ReasonOf(err error) Reason {
	var miss *MissError
	if errors.As(err, &miss) {
		return miss.Reason
	}
	return ""
}

// HTTPStatusError reports a non-2xx provider response.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}
