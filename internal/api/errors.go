package api

import (
	"errors"
	"net/http"

	"github.com/dgarridoh/studykit-api/internal/service"
	"github.com/dgarridoh/studykit-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, service.ErrJobNotFound),
		store.IsNotFoundError(err):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, service.ErrNoUploads),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Store connectivity problems
	case errors.Is(err, service.ErrStoreUnavailable),
		errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrJobNotFound),
		store.IsNotFoundError(err):
		return "Job not found"

	case errors.Is(err, service.ErrNoUploads):
		return "No files uploaded"

	case errors.Is(err, service.ErrStoreUnavailable),
		errors.Is(err, store.ErrUnavailable):
		return "Storage backend unavailable"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid job data"

	default:
		return "An unexpected error occurred"
	}
}
