package infrastructure

import (
	"fmt"

	"github.com/JaimeStill/wayfarer/internal/config"
	"github.com/JaimeStill/wayfarer/internal/prompts"
	"github.com/JaimeStill/wayfarer/internal/workflow"
)

// Pipeline builds the workflow runtime described by cfg: stage definitions
// with any prompt overrides applied, the agent backend, and pipeline
// metrics registered on i.Registry. Call it once per Infrastructure.
func (i *Infrastructure) Pipeline(cfg *config.Config) (*workflow.Runtime, error) {
	defs := prompts.Defaults()

	if path := cfg.Pipeline.PromptsFile; path != "" {
		o, err := prompts.LoadOverrides(path)
		if err != nil {
			return nil, err
		}
		if defs, err = defs.Apply(o); err != nil {
			return nil, fmt.Errorf("apply %s: %w", path, err)
		}
		i.Logger.Info("prompt overrides applied", "path", path, "stages", len(o.Stages))
	}

	metrics, err := workflow.NewMetrics(i.Registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	backend := workflow.NewAgentBackend(
		workflow.AgentCompleter(cfg.Agent, *cfg.Pipeline.Temperature),
		i.Search,
		workflow.BackendConfig{
			MaxRetries:    *cfg.Pipeline.MaxRetries,
			Timeout:       cfg.Pipeline.TimeoutDuration(),
			MaxRPM:        *cfg.Pipeline.MaxRPM,
			RetryInterval: cfg.Pipeline.RetryIntervalDuration(),
		},
		i.Logger,
	)

	return &workflow.Runtime{
		Backend:     backend,
		Definitions: defs,
		Storage:     i.Storage,
		Metrics:     metrics,
		Logger:      i.Logger.With("system", "workflow"),
	}, nil
}
