package intake

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/forecourt/internal/extraction"
)

var (
	ErrClosed       = errors.New("intake is not accepting messages")
	ErrEmptyMessage = errors.New("message has no text")
	ErrNoSource     = errors.New("source required")
)

// MapHTTPStatus maps intake errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrNoSource):
		return http.StatusBadRequest
	case errors.Is(err, ErrClosed), errors.Is(err, extraction.ErrDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, extraction.ErrExtract):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
