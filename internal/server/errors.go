package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tengjizhang/scrub/internal/store"
)

// AppError carries an HTTP status code and a client-safe message. The
// cause stays in Internal and is only logged.
type AppError struct {
	Code     int    `json:"-"`
	Type     string `json:"type"`
	Message  string `json:"message"`
	Internal error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Internal
}

func newBadRequest(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Type: "bad_request", Message: message}
}

// fromDomain maps the store/docs error taxonomy onto HTTP responses.
func fromDomain(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, store.ErrTooLarge):
		return &AppError{Code: http.StatusRequestEntityTooLarge, Type: "too_large", Message: err.Error()}
	case errors.Is(err, store.ErrMissingField):
		return &AppError{Code: http.StatusBadRequest, Type: "missing_field", Message: err.Error()}
	case errors.Is(err, store.ErrInvalidInput):
		return &AppError{Code: http.StatusBadRequest, Type: "bad_request", Message: err.Error()}
	case errors.Is(err, store.ErrNotFound):
		return &AppError{Code: http.StatusNotFound, Type: "not_found", Message: err.Error()}
	default:
		return &AppError{
			Code:     http.StatusInternalServerError,
			Type:     "internal_error",
			Message:  "an unexpected error occurred",
			Internal: err,
		}
	}
}
