package pkg

import (
	"fmt"
	"net/http"
)

// APIError is a domain error that knows its HTTP status. Handlers return
// these from their helpers and let WriteError render the envelope.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...any) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func NewAuthError(format string, args ...any) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func NewForbiddenError(format string, args ...any) *APIError {
	return &APIError{Status: http.StatusForbidden, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...any) *APIError {
	return &APIError{Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...any) *APIError {
	return &APIError{Status: http.StatusConflict, Message: fmt.Sprintf(format, args...)}
}
