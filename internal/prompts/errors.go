package prompts

import "errors"

var (
	// ErrInvalidStage indicates a stage name outside the fixed pipeline.
	ErrInvalidStage = errors.New("stage must be research, local_guide, or itinerary")
	// ErrTemplate indicates a template that fails to parse or references
	// a placeholder with no corresponding trip field.
	ErrTemplate = errors.New("template error")
	// ErrInvalidOverride indicates a malformed prompt override file.
	ErrInvalidOverride = errors.New("invalid prompt override")
)
