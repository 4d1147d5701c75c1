package prompts

import (
	"encoding/json"
	"slices"
)

// Stage identifies one step of the planning pipeline.
type Stage string

// Pipeline stages in execution order.
const (
	StageResearch   Stage = "research"
	StageLocalGuide Stage = "local_guide"
	StageItinerary  Stage = "itinerary"
)

var stages = []Stage{
	StageResearch,
	StageLocalGuide,
	StageItinerary,
}

var titles = map[Stage]string{
	StageResearch:   "Destination Research",
	StageLocalGuide: "Local Guide",
	StageItinerary:  "Itinerary",
}

// Stages returns the pipeline stages in their fixed execution order.
func Stages() []Stage {
	return slices.Clone(stages)
}

// Title returns the human-readable stage name used in progress output
// and dependency context headings.
func (s Stage) Title() string {
	if t, ok := titles[s]; ok {
		return t
	}
	return string(s)
}

// UnmarshalJSON validates that the decoded string is a known stage value.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseStage(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStage validates a string as a known pipeline stage.
// Returns ErrInvalidStage if the value is not recognized.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}
