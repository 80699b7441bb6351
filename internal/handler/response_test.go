package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avaldez/project-tracker/internal/apperror"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "validation",
			err:        apperror.ValidationFailed("name", "name is required"),
			wantStatus: http.StatusBadRequest,
			wantType:   "validation_error",
		},
		{
			name:       "not found",
			err:        apperror.NotFound("project", "abc"),
			wantStatus: http.StatusNotFound,
			wantType:   "not_found",
		},
		{
			name:       "incomplete profile",
			err:        apperror.ProfileIncomplete("displayName"),
			wantStatus: http.StatusUnauthorized,
			wantType:   "authentication_failed",
		},
		{
			name:       "store unavailable",
			err:        apperror.StoreUnavailable("looking up user", errors.New("dial tcp: connection refused")),
			wantStatus: http.StatusUnauthorized,
			wantType:   "authentication_failed",
		},
		{
			name:       "unknown error",
			err:        errors.New("pq: relation does not exist"),
			wantStatus: http.StatusInternalServerError,
			wantType:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantType)
		})
	}
}

// Store and infrastructure errors carry internals (addresses, SQL) that must
// never reach the client.
func TestWriteError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, apperror.StoreUnavailable("looking up user", errors.New("dial tcp 10.0.0.5:6379: connection refused")))
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	assert.NotContains(t, rec.Body.String(), "dial tcp")

	rec = httptest.NewRecorder()
	writeError(rec, errors.New("pq: relation \"users\" does not exist"))
	assert.NotContains(t, rec.Body.String(), "users")
	assert.NotContains(t, rec.Body.String(), "pq:")
}

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		in     string
		wantOK bool
	}{
		{"2026-09-30", true},
		{"2026-09-30T15:04:05Z", true},
		{"", true},
		{"soon", false},
		{"30/09/2026", false},
	}

	for _, tt := range tests {
		_, ok := parseDueDate(tt.in)
		assert.Equal(t, tt.wantOK, ok, "parseDueDate(%q)", tt.in)
	}
}
