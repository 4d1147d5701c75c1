package prompts

import (
	"fmt"
	"net/url"
	"strings"
	"text/template"
)

// Vars carries the trip fields a template may reference. Prior stage
// outputs never appear here; they travel as generation context.
type Vars map[string]any

// Rendered holds the final text blocks for one stage.
type Rendered struct {
	Stage          Stage
	Instruction    string
	ExpectedOutput string
	SearchQuery    string
}

var funcs = template.FuncMap{
	"mapsQuery": MapsQuery,
}

// MapsQuery escapes free text for use as a maps search query value:
// spaces become '+' and reserved characters are percent-encoded.
func MapsQuery(s string) string {
	return url.QueryEscape(strings.Join(strings.Fields(s), " "))
}

// Render fills a stage's templates with trip variables. Any unknown
// placeholder fails with ErrTemplate. Render has no side effects.
func Render(def Definition, vars Vars) (Rendered, error) {
	instruction, err := execute(def.Stage, "instructions", def.Instructions, vars)
	if err != nil {
		return Rendered{}, err
	}

	expected, err := execute(def.Stage, "expected_output", def.ExpectedOutput, vars)
	if err != nil {
		return Rendered{}, err
	}

	query, err := execute(def.Stage, "search_query", def.SearchQuery, vars)
	if err != nil {
		return Rendered{}, err
	}

	return Rendered{
		Stage:          def.Stage,
		Instruction:    strings.TrimSpace(instruction),
		ExpectedOutput: strings.TrimSpace(expected),
		SearchQuery:    strings.TrimSpace(query),
	}, nil
}

func execute(stage Stage, name, src string, vars Vars) (string, error) {
	tmpl, err := template.New(string(stage) + "." + name).
		Funcs(funcs).
		Option("missingkey=error").
		Parse(src)
	if err != nil {
		return "", fmt.Errorf("%w: parse %s %s: %w", ErrTemplate, stage, name, err)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, map[string]any(vars)); err != nil {
		return "", fmt.Errorf("%w: render %s %s: %w", ErrTemplate, stage, name, err)
	}

	return sb.String(), nil
}
