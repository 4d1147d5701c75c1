package plans

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/wayfarer/internal/prompts"
	"github.com/JaimeStill/wayfarer/internal/workflow"
	"github.com/JaimeStill/wayfarer/pkg/storage"
)

var (
	ErrNotFound       = errors.New("plan not found")
	ErrDuplicate      = errors.New("plan already exists")
	ErrNotReady       = errors.New("plan has not completed")
	ErrInvalidRequest = errors.New("invalid plan request")
)

// MapHTTPStatus maps plan and pipeline errors to HTTP status codes.
// Anything else is left to the artifact store's mapping.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrNotReady):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, workflow.ErrValidation),
		errors.Is(err, prompts.ErrInvalidStage):
		return http.StatusBadRequest
	case errors.Is(err, workflow.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, workflow.ErrBackend):
		return http.StatusBadGateway
	default:
		return storage.MapHTTPStatus(err)
	}
}
