// Package errors provides the standardized error taxonomy shared by the HTTP surface.
package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidFilterFormat ErrorCode = "INVALID_FILTER_FORMAT"
	ErrCodeInvalidID           ErrorCode = "INVALID_ID"

	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	ErrCodeConflict ErrorCode = "CONFLICT"

	ErrCodeDatabaseQueryFailed ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeCacheFailed         ErrorCode = "CACHE_FAILED"
	ErrCodeSearchFailed        ErrorCode = "SEARCH_FAILED"
	ErrCodeSearchUnavailable   ErrorCode = "SEARCH_UNAVAILABLE"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// FieldError describes one rejected field of a request body.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Fields    []FieldError           `json:"errors,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause so errors.Is keeps working across layers.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationError creates a 400-class error listing every rejected field.
func NewValidationError(fields []FieldError) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Invalid data",
		Fields:    fields,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidFilterFormatError is raised when query-string filters cannot be parsed.
func NewInvalidFilterFormatError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFilterFormat,
		Message:   "Invalid filter format",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidIDError is raised when a path identifier is not a positive integer.
func NewInvalidIDError(raw string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidID,
		Message:   "Invalid identifier",
		Details:   fmt.Sprintf("id: %q", raw),
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError reports a lookup by id with no matching row.
func NewNotFoundError(resource string, id int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   fmt.Sprintf("id: %d", id),
		Metadata:  map[string]interface{}{"resource": resource, "id": id},
		Timestamp: time.Now().UTC(),
	}
}

// NewConflictError reports a write rejected because other rows depend on the target.
func NewConflictError(resource, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConflict,
		Message:   fmt.Sprintf("%s is still referenced", resource),
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseQueryFailedError wraps an unexpected storage failure.
func NewDatabaseQueryFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseQueryFailed,
		Message:   "Database query failed",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewSearchFailedError wraps a failed search index call.
func NewSearchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchFailed,
		Message:   "Search request failed",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewSearchUnavailableError is returned when search is disabled or its breaker is open.
func NewSearchUnavailableError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchUnavailable,
		Message:   "Search is unavailable",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError is the fallback for anything that is not already a StandardError.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

var httpStatusMapping = map[ErrorCode]int{
	ErrCodeValidationFailed:    http.StatusBadRequest,
	ErrCodeInvalidFilterFormat: http.StatusBadRequest,
	ErrCodeInvalidID:           http.StatusBadRequest,
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeDatabaseQueryFailed: http.StatusInternalServerError,
	ErrCodeCacheFailed:         http.StatusInternalServerError,
	ErrCodeSearchFailed:        http.StatusBadGateway,
	ErrCodeSearchUnavailable:   http.StatusServiceUnavailable,
	ErrCodeInternal:            http.StatusInternalServerError,
}

// HTTPStatus returns the response status for an error code.
func HTTPStatus(code ErrorCode) int {
	if status, ok := httpStatusMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ==========================
// 4. Utility Functions
// ==========================

// IsClientError reports whether the code describes a caller mistake (4xx).
func IsClientError(code ErrorCode) bool {
	status := HTTPStatus(code)
	return status >= 400 && status < 500
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "VALIDATION_"), strings.HasPrefix(codeStr, "INVALID_"):
		return "validation"
	case code == ErrCodeNotFound, code == ErrCodeConflict:
		return "resource"
	case strings.HasPrefix(codeStr, "DATABASE_"):
		return "database"
	case strings.HasPrefix(codeStr, "SEARCH_"), strings.HasPrefix(codeStr, "CACHE_"):
		return "dependency"
	default:
		return "internal"
	}
}
