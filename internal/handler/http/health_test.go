package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		maxOpen    int
		wantCode   int
		wantStatus string
		wantDB     string
	}{
		{"healthy", nil, 10, http.StatusOK, "healthy", "healthy"},
		{"pool not configured", nil, 0, http.StatusOK, "healthy", "degraded"},
		{"ping fails", errors.New("dial tcp postgres://app:secret@db:5432: connection refused"), 10, http.StatusServiceUnavailable, "unhealthy", "unhealthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
			require.NoError(t, err)
			defer func() { _ = db.Close() }()
			db.SetMaxOpenConns(tt.maxOpen)
			mock.ExpectPing().WillReturnError(tt.pingErr)

			rr := httptest.NewRecorder()
			(&HealthHandler{DB: db, Version: "1.2.3"}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, tt.wantCode, rr.Code)
			var got HealthResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, "1.2.3", got.Version)
			assert.Equal(t, tt.wantDB, got.Checks["database"].Status)
			assert.NotContains(t, got.Checks["database"].Message, "secret")
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHealthHandler_NoDatabase(t *testing.T) {
	rr := httptest.NewRecorder()

	(&HealthHandler{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestReadyHandler(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectPing()
	rr := httptest.NewRecorder()
	(&ReadyHandler{DB: db}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	mock.ExpectPing().WillReturnError(errors.New("too many connections"))
	rr = httptest.NewRecorder()
	(&ReadyHandler{DB: db}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.NotContains(t, rr.Body.String(), "too many connections")
}

func TestLiveHandler(t *testing.T) {
	rr := httptest.NewRecorder()

	LiveHandler{}.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"alive"}`, rr.Body.String())
}
