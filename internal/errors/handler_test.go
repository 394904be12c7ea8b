package errors

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "schema error maps to 422",
			err:        NewSchemaError("missing violation_type column", nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeSchema,
		},
		{
			name:       "missing column error maps to 422",
			err:        NewMissingColumnError("no week column resolved"),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeMissingColumn,
		},
		{
			name:       "parsing error maps to 400",
			err:        NewParsingError("malformed csv", nil),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeParsing,
		},
		{
			name:       "not found error maps to 404",
			err:        NewNotFoundError("ticket not found"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "api error keeps its status",
			err:        ErrTicketNotFound,
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "unknown error maps to 500",
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	handler := NewErrorHandler(slog.Default(), false)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/snapshots/abc/finalize", nil)
			rec := httptest.NewRecorder()

			handler.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/snapshots/abc/finalize", body["instance"])
		})
	}
}

func TestProblemDetails_MarshalJSON_FlattensExtensions(t *testing.T) {
	problem := NewProblemDetails(422, TypeSchema, "Table Schema Invalid", "missing column", "/upload").
		WithExtension("error_type", "SCHEMA")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "SCHEMA", body["error_type"])
	assert.Equal(t, "Table Schema Invalid", body["title"])
}

func TestErrorHandler_NotFound(t *testing.T) {
	handler := NewErrorHandler(slog.Default(), false)
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()

	handler.NotFound(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
