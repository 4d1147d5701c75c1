package workflow

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/wayfarer/internal/prompts"
)

// StageNode returns a state node that renders def against the trip, calls
// the backend with the outputs of def's dependencies, and appends the
// result. A failure is classified and recorded in failure before the node
// returns it.
func StageNode(rt *Runtime, def prompts.Definition, failure **StageError) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		fail := func(err error) (state.State, error) {
			se := &StageError{Stage: def.Stage, Kind: Classify(err), Err: err}
			*failure = se
			rt.Metrics.observeFailure(def.Stage, se.Kind)
			return s, se
		}

		if err := ctx.Err(); err != nil {
			return fail(err)
		}

		params, err := extractParams(s)
		if err != nil {
			return fail(err)
		}

		results, err := extractResults(s)
		if err != nil {
			return fail(err)
		}

		rendered, err := prompts.Render(def, params.Vars())
		if err != nil {
			return fail(err)
		}

		emit := emitter(rt.Progress)
		emit.OnChunk(fmt.Sprintf("\n> Entering new %s chain...\n", def.Stage.Title()))
		emit.OnChunk(fmt.Sprintf("Task: %s\n", def.Persona.Role))

		start := time.Now()
		text, err := rt.Backend.Generate(ctx, Request{
			Stage:          def.Stage,
			Persona:        def.Persona,
			Instruction:    rendered.Instruction,
			ExpectedOutput: rendered.ExpectedOutput,
			SearchQuery:    rendered.SearchQuery,
			Context:        dependencyContext(def, results),
			Progress:       emit,
		})
		if err != nil {
			return fail(err)
		}

		elapsed := time.Since(start)
		rt.Metrics.observeStage(def.Stage, elapsed)
		emit.OnChunk("> Finished chain.\n")

		rt.Logger.InfoContext(
			ctx, "stage complete",
			"stage", def.Stage,
			"duration", elapsed,
			"length", len(text),
		)

		results = append(slices.Clone(results), StageResult{
			Stage:      def.Stage,
			Text:       text,
			ProducedAt: time.Now(),
		})

		return s.Set(KeyResults, results), nil
	})
}

// dependencyContext selects the results def depends on, in the order def
// declares them.
func dependencyContext(def prompts.Definition, results []StageResult) []StageResult {
	var ctx []StageResult
	for _, dep := range def.DependsOn {
		for _, res := range results {
			if res.Stage == dep {
				ctx = append(ctx, res)
			}
		}
	}
	return ctx
}
