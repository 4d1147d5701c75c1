package workflow

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/wayfarer/internal/search"
)

// ComposePrompt builds the full prompt for a stage: persona, rendered
// instruction and expected output, followed by the outputs of dependency
// stages and any search grounding. Prior outputs are appended verbatim
// and never pass through template rendering.
func ComposePrompt(req Request, grounding []search.Result) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are %s.\n", req.Persona.Role)
	fmt.Fprintf(&sb, "%s\n\n", strings.TrimSpace(req.Persona.Backstory))
	fmt.Fprintf(&sb, "Your personal goal is: %s\n\n", req.Persona.Goal)

	sb.WriteString("Current Task: ")
	sb.WriteString(req.Instruction)
	sb.WriteString("\n\nThis is the expected criteria for your final answer:\n")
	sb.WriteString(req.ExpectedOutput)

	if len(req.Context) > 0 {
		sb.WriteString("\n\nThis is the context you're working with:")
		for _, res := range req.Context {
			fmt.Fprintf(&sb, "\n\n## %s\n\n%s", res.Stage.Title(), strings.TrimSpace(res.Text))
		}
	}

	if len(grounding) > 0 {
		sb.WriteString("\n\nSearch results:")
		for _, r := range grounding {
			fmt.Fprintf(&sb, "\n\n- %s\n  %s\n  %s", r.Title, r.Link, r.Snippet)
		}
	}

	sb.WriteString("\n\nRespond with the complete final answer only, in markdown.")

	return sb.String()
}
