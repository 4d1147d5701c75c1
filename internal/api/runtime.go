package api

import (
	"github.com/JaimeStill/wayfarer/internal/config"
	"github.com/JaimeStill/wayfarer/internal/infrastructure"
	"github.com/JaimeStill/wayfarer/internal/workflow"
	"github.com/JaimeStill/wayfarer/pkg/pagination"
)

// Runtime extends Infrastructure with the pipeline and API-specific
// configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Workflow       *workflow.Runtime
	Pagination     pagination.Config
	ArtifactPrefix string
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure, wf *workflow.Runtime) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &scoped,
		Workflow:       wf,
		Pagination:     cfg.API.Pagination,
		ArtifactPrefix: cfg.Pipeline.ArtifactPrefix,
	}
}
