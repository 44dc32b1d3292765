package api

import (
	"errors"
	"net/http"

	"github.com/wordtrail/wordtrail/internal/service"
)

// MapErrorToStatusCode translates service-layer errors into HTTP status
// codes. Unknown errors map to 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrCardNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for the error. Known
// error kinds surface their own text; anything else collapses to a generic
// message so internal details never leak to clients.
func GetSafeErrorMessage(err error) string {
	if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrState) {
		return err.Error()
	}
	return "An internal error occurred"
}
