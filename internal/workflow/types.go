package workflow

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/wayfarer/internal/prompts"
)

const (
	KeyParams  = "params"
	KeyResults = "results"
)

// DateLayout is the calendar date format used in prompts and requests.
const DateLayout = "2006-01-02"

// TripParameters is the user's trip request.
type TripParameters struct {
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Interests   []string  `json:"interests"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

// Validate rejects blank locations, missing dates, and a start date after
// the end date.
func (p TripParameters) Validate() error {
	if strings.TrimSpace(p.Origin) == "" {
		return fmt.Errorf("%w: origin required", ErrValidation)
	}
	if strings.TrimSpace(p.Destination) == "" {
		return fmt.Errorf("%w: destination required", ErrValidation)
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates required", ErrValidation)
	}
	if dateOnly(p.StartDate).After(dateOnly(p.EndDate)) {
		return fmt.Errorf(
			"%w: start date %s is after end date %s",
			ErrValidation,
			p.StartDate.Format(DateLayout),
			p.EndDate.Format(DateLayout),
		)
	}
	return nil
}

// Days returns the inclusive number of calendar days in the trip.
func (p TripParameters) Days() int {
	d := dateOnly(p.EndDate).Sub(dateOnly(p.StartDate))
	return int(d.Hours()/24) + 1
}

// InterestList joins the interests for use in prompt text.
func (p TripParameters) InterestList() string {
	if len(p.Interests) == 0 {
		return "none specified"
	}
	return strings.Join(p.Interests, ", ")
}

// Vars returns the template variables for this trip.
func (p TripParameters) Vars() prompts.Vars {
	return prompts.Vars{
		"Origin":      strings.TrimSpace(p.Origin),
		"Destination": strings.TrimSpace(p.Destination),
		"Interests":   p.InterestList(),
		"StartDate":   p.StartDate.Format(DateLayout),
		"EndDate":     p.EndDate.Format(DateLayout),
		"Days":        p.Days(),
	}
}

// NormalizeInterests trims, drops empty entries and removes duplicates
// while keeping first-seen order.
func NormalizeInterests(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StageResult is the text one stage produced.
type StageResult struct {
	Stage      prompts.Stage `json:"stage"`
	Text       string        `json:"text"`
	ProducedAt time.Time     `json:"produced_at"`
}

// Status is the terminal state of a run.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// PipelineRun is one execution of the pipeline. Results are in execution
// order.
type PipelineRun struct {
	ID          uuid.UUID      `json:"id"`
	Params      TripParameters `json:"params"`
	Results     []StageResult  `json:"results"`
	Status      Status         `json:"status"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt time.Time      `json:"completed_at"`
}

// Result returns the output of a stage, if it ran.
func (r *PipelineRun) Result(stage prompts.Stage) (StageResult, bool) {
	for _, res := range r.Results {
		if res.Stage == stage {
			return res, true
		}
	}
	return StageResult{}, false
}

// Final returns the itinerary text.
func (r *PipelineRun) Final() string {
	res, _ := r.Result(prompts.StageItinerary)
	return res.Text
}
