package workflow

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// Execute validates params and runs every stage in order, passing each
// dependent stage the outputs it declares. A run either completes with one
// result per stage or fails with a *StageError and no run. Each call owns a
// fresh run and graph state.
func Execute(ctx context.Context, rt *Runtime, params TripParameters) (*PipelineRun, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	params.Interests = slices.Clone(params.Interests)

	run := &PipelineRun{
		ID:        uuid.New(),
		Params:    params,
		StartedAt: time.Now(),
	}

	var failure *StageError
	graph, err := buildGraph(rt, &failure)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	rt.Logger.InfoContext(
		ctx, "pipeline started",
		"run_id", run.ID,
		"destination", params.Destination,
		"days", params.Days(),
	)

	initialState := state.New(nil)
	initialState = initialState.Set(KeyParams, params)
	initialState = initialState.Set(KeyResults, []StageResult{})

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		run.Status = StatusFailed
		rt.Metrics.observeRun(run.Status)

		if failure == nil {
			failure = &StageError{Kind: Classify(err), Err: err}
		}

		rt.Logger.ErrorContext(
			ctx, "pipeline failed",
			"run_id", run.ID,
			"stage", failure.Stage,
			"kind", failure.Kind,
			"error", failure.Err,
		)
		return nil, failure
	}

	results, err := extractResults(finalState)
	if err != nil {
		return nil, err
	}

	run.Results = results
	run.Status = StatusCompleted
	run.CompletedAt = time.Now()
	rt.Metrics.observeRun(run.Status)

	if dups := DuplicateLocations(run.Final()); len(dups) > 0 {
		rt.Logger.WarnContext(
			ctx, "itinerary repeats locations",
			"run_id", run.ID,
			"locations", dups,
		)
	}

	rt.Logger.InfoContext(
		ctx, "pipeline complete",
		"run_id", run.ID,
		"duration", run.CompletedAt.Sub(run.StartedAt),
	)

	return run, nil
}

func buildGraph(rt *Runtime, failure **StageError) (state.StateGraph, error) {
	defs := rt.Stages()
	if err := defs.Validate(); err != nil {
		return nil, err
	}

	cfg := gaoconfig.DefaultGraphConfig("wayfarer-plan")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	for _, def := range defs {
		if err := graph.AddNode(string(def.Stage), StageNode(rt, def, failure)); err != nil {
			return nil, err
		}
	}

	// research → local_guide → itinerary (unconditional)
	for i := 1; i < len(defs); i++ {
		if err := graph.AddEdge(string(defs[i-1].Stage), string(defs[i].Stage), nil); err != nil {
			return nil, err
		}
	}

	if err := graph.SetEntryPoint(string(defs[0].Stage)); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint(string(defs[len(defs)-1].Stage)); err != nil {
		return nil, err
	}

	return graph, nil
}

func extractParams(s state.State) (TripParameters, error) {
	val, ok := s.Get(KeyParams)
	if !ok {
		return TripParameters{}, fmt.Errorf("missing %s in state", KeyParams)
	}

	params, ok := val.(TripParameters)
	if !ok {
		return TripParameters{}, fmt.Errorf("%s is not TripParameters", KeyParams)
	}

	return params, nil
}

func extractResults(s state.State) ([]StageResult, error) {
	val, ok := s.Get(KeyResults)
	if !ok {
		return nil, fmt.Errorf("missing %s in state", KeyResults)
	}

	results, ok := val.([]StageResult)
	if !ok {
		return nil, fmt.Errorf("%s is not []StageResult", KeyResults)
	}

	return results, nil
}
