package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler_HandleError(t *testing.T) {
	handler := NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedType   string
		expectedCode   string
	}{
		{
			name:           "schema mismatch",
			err:            fmt.Errorf("parse: %w", NewSchemaMismatchError("Average")),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedType:   TypeSchemaMismatch,
			expectedCode:   "SCHEMA_MISMATCH",
		},
		{
			name:           "type coercion",
			err:            NewTypeCoercionError(2, "Open", "x", nil),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedType:   TypeTypeCoercion,
			expectedCode:   "TYPE_COERCION",
		},
		{
			name:           "validation",
			err:            NewValidationError("invalid format", nil),
			expectedStatus: http.StatusBadRequest,
			expectedType:   TypeValidation,
			expectedCode:   "VALIDATION",
		},
		{
			name:           "context canceled",
			err:            context.Canceled,
			expectedStatus: http.StatusGatewayTimeout,
			expectedType:   TypeTimeout,
		},
		{
			name:           "unknown error",
			err:            fmt.Errorf("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/clean", nil)
			rec := httptest.NewRecorder()

			handler.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedType, body["type"])
			assert.Equal(t, float64(tt.expectedStatus), body["status"])
			assert.Equal(t, "/api/v1/clean", body["instance"])
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, body["error_code"])
			}
		})
	}
}

func TestErrorHandler_NilErrorWritesNothing(t *testing.T) {
	handler := NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
	rec := httptest.NewRecorder()

	handler.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, 0, rec.Body.Len())
}
