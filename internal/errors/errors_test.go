package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	err := New(http.StatusNotFound, "NOT_FOUND", "thing not found")
	assert.Equal(t, "thing not found", err.Error())
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "api error passes through",
			err:        ErrNoSnapshot,
			wantStatus: http.StatusNotFound,
			wantCode:   "NO_SNAPSHOT",
		},
		{
			name:       "wrapped api error unwraps",
			err:        fmt.Errorf("loading dashboard: %w", ErrSourceNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   "SOURCE_NOT_FOUND",
		},
		{
			name:       "plain error becomes internal",
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
		{
			name:       "context cancellation becomes timeout",
			err:        context.Canceled,
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   "TIMEOUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewErrorHandler(nil)
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/dashboard/kpis", nil)

			h.HandleError(w, r, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var body APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.ErrorCode)
		})
	}
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("threshold_days", "must be a positive integer")
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)

	detail, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "threshold_days", detail.Field)
}
