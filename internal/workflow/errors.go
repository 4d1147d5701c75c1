// Package workflow implements the trip planning pipeline. It provides the
// trip and run types, the generation backend, and the 3-node state graph
// (research → local_guide → itinerary) that executes a plan.
package workflow

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JaimeStill/wayfarer/internal/prompts"
)

// Sentinel errors for workflow operations.
var (
	ErrValidation  = errors.New("invalid trip parameters")
	ErrTemplate    = prompts.ErrTemplate
	ErrRateLimited = errors.New("generation backend rate limited")
	ErrBackend     = errors.New("generation backend failed")
)

// StageError reports which stage aborted a run and why. Kind is one of
// ErrTemplate, ErrRateLimited or ErrBackend.
type StageError struct {
	Stage prompts.Stage
	Kind  error
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v: %v", e.Stage, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *StageError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// StatusCoder is implemented by backend errors that carry an HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// permanent reports whether err is a client error that another attempt
// cannot fix. Rate limits and request timeouts stay retryable.
func permanent(err error) bool {
	var sc StatusCoder
	if !errors.As(err, &sc) {
		return false
	}
	switch code := sc.StatusCode(); {
	case code == http.StatusTooManyRequests, code == http.StatusRequestTimeout:
		return false
	default:
		return code >= 400 && code < 500
	}
}

var rateLimitPhrases = []string{
	"rate limit",
	"rate_limit",
	"ratelimit",
	"too many requests",
}

// Classify maps a backend failure onto ErrRateLimited or ErrBackend. Errors
// that already carry a kind, including ErrValidation, keep it.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidation):
		return ErrValidation
	case errors.Is(err, ErrTemplate):
		return ErrTemplate
	case errors.Is(err, ErrRateLimited):
		return ErrRateLimited
	}

	var sc StatusCoder
	if errors.As(err, &sc) && sc.StatusCode() == http.StatusTooManyRequests {
		return ErrRateLimited
	}

	msg := strings.ToLower(err.Error())
	for _, phrase := range rateLimitPhrases {
		if strings.Contains(msg, phrase) {
			return ErrRateLimited
		}
	}

	return ErrBackend
}
