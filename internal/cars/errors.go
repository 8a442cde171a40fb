package cars

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/forecourt/pkg/repository"
)

// Domain errors for car operations.
var (
	ErrNotFound     = errors.New("car not found")
	ErrInvalidID    = errors.New("invalid car id")
	ErrInvalidCar   = errors.New("invalid car")
	ErrInvalidRego  = errors.New("invalid rego")
	ErrInvalidFile  = errors.New("invalid photo")
	ErrFileTooLarge = errors.New("photo exceeds maximum upload size")
)

var repoErrors = repository.Errors{NotFound: ErrNotFound}

// MapHTTPStatus maps car domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrInvalidCar), errors.Is(err, ErrInvalidRego), errors.Is(err, ErrInvalidFile):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
