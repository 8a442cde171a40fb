package verifications

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/forecourt/pkg/repository"
)

// Domain errors for verification operations.
var (
	ErrNotFound    = errors.New("verification not found")
	ErrNotPending  = errors.New("verification is not pending")
	ErrCarNotFound = errors.New("car not found")
	ErrInvalid     = errors.New("invalid verification request")
)

var repoErrors = repository.Errors{NotFound: ErrNotFound, Reference: ErrCarNotFound}

// MapHTTPStatus maps verification domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotPending):
		return http.StatusConflict
	case errors.Is(err, ErrCarNotFound), errors.Is(err, ErrInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
