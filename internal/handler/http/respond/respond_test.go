package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"cineverse/internal/domain/entity"
)

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var got map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return got
}

func TestJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	JSON(rr, http.StatusCreated, map[string]int{"samples": 3})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusCreated)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if body := rr.Body.String(); body != "{\"samples\":3}\n" {
		t.Errorf("body = %q", body)
	}
}

func TestJSON_NilBody(t *testing.T) {
	rr := httptest.NewRecorder()

	JSON(rr, http.StatusNoContent, nil)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rr.Body.String())
	}
}

func TestJSON_EncodingError(t *testing.T) {
	rr := httptest.NewRecorder()

	JSON(rr, http.StatusOK, map[string]any{"bad": make(chan int)})

	// the status line is already out when encoding fails
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestError(t *testing.T) {
	rr := httptest.NewRecorder()

	Error(rr, http.StatusBadRequest, errors.New("ceremony is required"))

	if got := decodeBody(t, rr)["error"]; got != "ceremony is required" {
		t.Errorf("error = %q", got)
	}
}

func TestSafeError(t *testing.T) {
	tests := []struct {
		name string
		code int
		err  error
		want string
	}{
		{"not found is exposed", http.StatusNotFound, fmt.Errorf("collection bond: %w", entity.ErrNotFound), "collection bond: not found"},
		{"validation is exposed", http.StatusBadRequest, &entity.ValidationError{Field: "name", Message: "is empty"}, "validation error on field 'name': is empty"},
		{"internal detail hidden", http.StatusBadRequest, errors.New("pq: relation does not exist"), "internal server error"},
		{"5xx always hidden", http.StatusInternalServerError, errors.New("invalid memory address"), "internal server error"},
		{"credentials hidden", http.StatusBadGateway, errors.New("GET ?apikey=secret: 503"), "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()

			SafeError(rr, tt.code, tt.err)

			if rr.Code != tt.code {
				t.Fatalf("status = %d, want %d", rr.Code, tt.code)
			}
			if got := decodeBody(t, rr)["error"]; got != tt.want {
				t.Errorf("error = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSafeError_Nil(t *testing.T) {
	rr := httptest.NewRecorder()

	SafeError(rr, http.StatusInternalServerError, nil)

	if rr.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rr.Body.String())
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("latest snapshot: %w", entity.ErrNotFound), http.StatusNotFound},
		{"invalid input", entity.ErrInvalidInput, http.StatusBadRequest},
		{"validation error", &entity.ValidationError{Field: "ceremony", Message: "is required"}, http.StatusBadRequest},
		{"other", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusOf(tt.err); got != tt.want {
				t.Errorf("StatusOf() = %d, want %d", got, tt.want)
			}
		})
	}
}
