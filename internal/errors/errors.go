package errors

import (
	"fmt"
	"net/http"
)

// APIError represents an application error carried through gin's error list
type APIError struct {
	Status   int    `json:"-"`
	Message  string `json:"error"`
	Internal error  `json:"-"`
}

// Error returns the error message
func (e *APIError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

// Unwrap returns the original error
func (e *APIError) Unwrap() error {
	return e.Internal
}

// New creates a new application error
func New(status int, message string, internal error) *APIError {
	return &APIError{
		Status:   status,
		Message:  message,
		Internal: internal,
	}
}

func BadRequest(message string, err error) *APIError {
	return New(http.StatusBadRequest, message, err)
}

func Unauthorized(message string, err error) *APIError {
	return New(http.StatusUnauthorized, message, err)
}

func Forbidden(message string, err error) *APIError {
	return New(http.StatusForbidden, message, err)
}

func NotFound(message string, err error) *APIError {
	return New(http.StatusNotFound, message, err)
}

func UnprocessableEntity(message string, err error) *APIError {
	return New(http.StatusUnprocessableEntity, message, err)
}

func Internal(err error) *APIError {
	return New(http.StatusInternalServerError, "Internal server error", err)
}

// QuotaExceeded is returned when a plan ceiling blocks a create or archive.
// The numeric limit is part of the message so clients can surface it directly.
func QuotaExceeded(resource string, limit int) *APIError {
	return New(
		http.StatusForbidden,
		fmt.Sprintf("Plan limit reached. Your plan allows %d %s.", limit, resource),
		nil,
	)
}

// NewValidationError wraps a binding/validation failure
func NewValidationError(err error) *APIError {
	return New(http.StatusUnprocessableEntity, "Validation failed", err)
}
