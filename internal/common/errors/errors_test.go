package errors

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	debugs []string
	errors []string
}

func (l *recordingLogger) Debug(msg string, _ map[string]interface{}) { l.debugs = append(l.debugs, msg) }
func (l *recordingLogger) Error(msg string, _ map[string]interface{}) { l.errors = append(l.errors, msg) }

// ==========================
// HTTP mapping
// ==========================

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeValidationFailed, http.StatusBadRequest},
		{ErrCodeInvalidFilterFormat, http.StatusBadRequest},
		{ErrCodeInvalidID, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeDatabaseQueryFailed, http.StatusInternalServerError},
		{ErrCodeCacheFailed, http.StatusInternalServerError},
		{ErrCodeSearchFailed, http.StatusBadGateway},
		{ErrCodeSearchUnavailable, http.StatusServiceUnavailable},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "validation", GetErrorCategory(ErrCodeValidationFailed))
	assert.Equal(t, "validation", GetErrorCategory(ErrCodeInvalidID))
	assert.Equal(t, "resource", GetErrorCategory(ErrCodeNotFound))
	assert.Equal(t, "database", GetErrorCategory(ErrCodeDatabaseQueryFailed))
	assert.Equal(t, "dependency", GetErrorCategory(ErrCodeSearchUnavailable))
	assert.Equal(t, "internal", GetErrorCategory(ErrCodeInternal))
}

// ==========================
// Normalize / Write
// ==========================

func TestNormalize_UnwrapsWrappedStandardError(t *testing.T) {
	base := NewNotFoundError("Funding opportunity", 7)
	wrapped := fmt.Errorf("handler: %w", base)

	assert.Same(t, base, Normalize(wrapped))
}

func TestNormalize_PlainErrorBecomesInternal(t *testing.T) {
	got := Normalize(goerrors.New("boom"))
	assert.Equal(t, ErrCodeInternal, got.Code)
	assert.Equal(t, "boom", got.Details)
}

func TestStandardError_UnwrapKeepsCause(t *testing.T) {
	cause := goerrors.New("connection refused")
	err := NewDatabaseQueryFailedError("list", cause)
	assert.True(t, goerrors.Is(err, cause))
}

func TestErrorHandler_WriteValidation(t *testing.T) {
	log := &recordingLogger{}
	h := NewErrorHandler(log)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/funding-opportunities", nil)

	h.Write(rec, req, NewValidationError([]FieldError{{Field: "title", Message: "title is required", Code: "required"}}))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_FAILED", body["code"])
	assert.Equal(t, "Invalid data", body["message"])
	fields := body["errors"].([]interface{})
	require.Len(t, fields, 1)
	assert.Equal(t, "title", fields[0].(map[string]interface{})["field"])

	assert.Len(t, log.debugs, 1)
	assert.Empty(t, log.errors)
}

func TestErrorHandler_WriteHidesServerDetails(t *testing.T) {
	log := &recordingLogger{}
	h := NewErrorHandler(log)
	rec := httptest.NewRecorder()

	h.Write(rec, httptest.NewRequest(http.MethodGet, "/", nil),
		NewDatabaseQueryFailedError("list", goerrors.New("pq: relation does not exist")))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "relation does not exist")
	assert.Len(t, log.errors, 1)
}
