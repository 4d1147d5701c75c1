// Package prompts holds the declarative stage definitions of the planning
// pipeline and renders their templates against trip parameters.
package prompts

import (
	"fmt"
	"slices"
)

// Definition describes one generation stage: who speaks (Persona), what to
// do (Instructions), what to return (ExpectedOutput) and which earlier
// stage outputs it receives as context (DependsOn). Instructions,
// ExpectedOutput and SearchQuery are text/template sources.
type Definition struct {
	Stage          Stage   `json:"stage"`
	Persona        Persona `json:"persona"`
	Instructions   string  `json:"instructions"`
	ExpectedOutput string  `json:"expected_output"`
	SearchQuery    string  `json:"search_query"`
	DependsOn      []Stage `json:"depends_on"`
	Artifact       string  `json:"artifact"`
}

// Definitions is an ordered stage set. Order is execution order.
type Definitions []Definition

// Defaults returns a fresh copy of the built-in stage definitions.
func Defaults() Definitions {
	return Definitions{
		{
			Stage:          StageResearch,
			Persona:        researchPersona,
			Instructions:   researchInstructions,
			ExpectedOutput: researchSpec,
			SearchQuery:    "{{.Destination}} travel from {{.Origin}} transport hotels weather {{.StartDate}}",
			Artifact:       "city_report.md",
		},
		{
			Stage:          StageLocalGuide,
			Persona:        localGuidePersona,
			Instructions:   localGuideInstructions,
			ExpectedOutput: localGuideSpec,
			SearchQuery:    "{{.Destination}} best {{.Interests}} local food hidden gems",
			Artifact:       "guide_report.md",
		},
		{
			Stage:          StageItinerary,
			Persona:        itineraryPersona,
			Instructions:   itineraryInstructions,
			ExpectedOutput: itinerarySpec,
			SearchQuery:    "{{.Destination}} {{.Days}} day itinerary opening hours",
			DependsOn:      []Stage{StageResearch, StageLocalGuide},
			Artifact:       "travel_plan.md",
		},
	}
}

// Lookup returns the definition for a stage.
func (d Definitions) Lookup(stage Stage) (Definition, error) {
	i := slices.IndexFunc(d, func(def Definition) bool {
		return def.Stage == stage
	})
	if i < 0 {
		return Definition{}, fmt.Errorf("%w: %s", ErrInvalidStage, stage)
	}
	return d[i], nil
}

// Validate checks that every pipeline stage is present exactly once, in the
// fixed order, and that dependencies only point at earlier stages.
func (d Definitions) Validate() error {
	if len(d) != len(stages) {
		return fmt.Errorf("%w: want %d stages, got %d", ErrInvalidStage, len(stages), len(d))
	}

	for i, def := range d {
		if def.Stage != stages[i] {
			return fmt.Errorf("%w: position %d holds %s, want %s", ErrInvalidStage, i, def.Stage, stages[i])
		}
		for _, dep := range def.DependsOn {
			j := slices.Index(stages, dep)
			if j < 0 || j >= i {
				return fmt.Errorf("%w: %s cannot depend on %s", ErrInvalidStage, def.Stage, dep)
			}
		}
		if def.Artifact == "" {
			return fmt.Errorf("%w: %s has no artifact name", ErrInvalidStage, def.Stage)
		}
	}

	return nil
}
