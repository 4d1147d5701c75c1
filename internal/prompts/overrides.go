package prompts

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Override replaces parts of a stage definition. Empty fields keep the
// built-in text.
type Override struct {
	Persona        *Persona `yaml:"persona"`
	Instructions   string   `yaml:"instructions"`
	ExpectedOutput string   `yaml:"expected_output"`
	SearchQuery    string   `yaml:"search_query"`
}

// Overrides maps stage names to overrides, as read from a YAML file:
//
//	stages:
//	  itinerary:
//	    expected_output: |
//	      ...
type Overrides struct {
	Stages map[string]Override `yaml:"stages"`
}

// LoadOverrides reads a YAML override file.
func LoadOverrides(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Overrides{}, fmt.Errorf("read prompt overrides: %w", err)
	}

	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return Overrides{}, fmt.Errorf("%w: %w", ErrInvalidOverride, err)
	}

	for name := range o.Stages {
		if _, err := ParseStage(name); err != nil {
			return Overrides{}, fmt.Errorf("%w: unknown stage %q", ErrInvalidOverride, name)
		}
	}

	return o, nil
}

// Apply returns a copy of d with the overrides merged in. Every resulting
// template is dry-rendered against sample values so that a broken override
// is rejected at load time instead of mid-run.
func (d Definitions) Apply(o Overrides) (Definitions, error) {
	out := make(Definitions, len(d))
	for i, def := range d {
		def.DependsOn = slices.Clone(def.DependsOn)

		if ov, ok := o.Stages[string(def.Stage)]; ok {
			if ov.Persona != nil {
				def.Persona = *ov.Persona
			}
			if ov.Instructions != "" {
				def.Instructions = ov.Instructions
			}
			if ov.ExpectedOutput != "" {
				def.ExpectedOutput = ov.ExpectedOutput
			}
			if ov.SearchQuery != "" {
				def.SearchQuery = ov.SearchQuery
			}
		}

		if _, err := Render(def, sampleVars); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidOverride, err)
		}

		out[i] = def
	}

	return out, nil
}

var sampleVars = Vars{
	"Origin":      "Chennai",
	"Destination": "Madurai",
	"Interests":   "Culture & History, Food & Cuisine",
	"StartDate":   "2025-01-10",
	"EndDate":     "2025-01-14",
	"Days":        5,
}
