package workflow

import (
	"log/slog"

	"github.com/JaimeStill/wayfarer/internal/progress"
	"github.com/JaimeStill/wayfarer/internal/prompts"
	"github.com/JaimeStill/wayfarer/pkg/storage"
)

// Runtime bundles the dependencies that workflow nodes require.
// It is constructed by higher-level composition code from Infrastructure
// and Domain systems. Metrics, Storage and Progress may be nil.
type Runtime struct {
	Backend     Backend
	Definitions prompts.Definitions
	Storage     storage.System
	Metrics     *Metrics
	Progress    progress.Emitter
	Logger      *slog.Logger
}

// WithProgress returns a shallow copy of rt that reports to e. Each run
// should own its emitter.
func (rt *Runtime) WithProgress(e progress.Emitter) *Runtime {
	c := *rt
	c.Progress = e
	return &c
}

// Stages returns the configured definitions, or the built-in set when none
// are configured.
func (rt *Runtime) Stages() prompts.Definitions {
	if len(rt.Definitions) == 0 {
		return prompts.Defaults()
	}
	return rt.Definitions
}
