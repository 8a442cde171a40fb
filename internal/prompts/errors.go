package prompts

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/forecourt/pkg/repository"
)

// Domain errors for prompt operations.
var (
	ErrNotFound  = errors.New("prompt not found")
	ErrDuplicate = errors.New("prompt name already exists")
	ErrInvalid   = errors.New("prompt requires a name and instructions")
	ErrInvalidID = errors.New("invalid prompt id")
)

var repoErrors = repository.Errors{NotFound: ErrNotFound, Duplicate: ErrDuplicate}

// MapHTTPStatus maps prompt domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalid), errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
