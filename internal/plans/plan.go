// Package plans implements the plan domain: every pipeline run requested
// through the API is recorded as a Plan, its itinerary kept in the
// database and its stage artifacts in blob storage.
package plans

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/JaimeStill/wayfarer/internal/workflow"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Plan is a recorded pipeline run. Failure, FailureStage and FailureKind
// are set only when Status is failed.
type Plan struct {
	ID             uuid.UUID  `json:"id"`
	Origin         string     `json:"origin"`
	Destination    string     `json:"destination"`
	Interests      Interests  `json:"interests"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        time.Time  `json:"end_date"`
	Status         Status     `json:"status"`
	Itinerary      string     `json:"itinerary,omitempty"`
	Failure        *string    `json:"failure,omitempty"`
	FailureStage   *string    `json:"failure_stage,omitempty"`
	FailureKind    *string    `json:"failure_kind,omitempty"`
	ArtifactPrefix string     `json:"artifact_prefix"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// Interests is stored as a JSONB array.
type Interests []string

func (i Interests) Value() (driver.Value, error) {
	if i == nil {
		i = Interests{}
	}
	b, err := json.Marshal([]string(i))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (i *Interests) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*i = Interests{}
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("scan interests: unsupported type %T", src)
	}
	return json.Unmarshal(b, (*[]string)(i))
}

// CreateCommand is a trip request as submitted by a client. Dates use
// workflow.DateLayout.
type CreateCommand struct {
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	Interests   []string `json:"interests"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
}

// Params converts the command into validated trip parameters. Interests
// are cleaned with CleanInterest and deduplicated.
func (c CreateCommand) Params() (workflow.TripParameters, error) {
	start, err := parseDate("start_date", c.StartDate)
	if err != nil {
		return workflow.TripParameters{}, err
	}
	end, err := parseDate("end_date", c.EndDate)
	if err != nil {
		return workflow.TripParameters{}, err
	}

	interests := make([]string, 0, len(c.Interests))
	for _, v := range c.Interests {
		interests = append(interests, CleanInterest(v))
	}

	params := workflow.TripParameters{
		Origin:      strings.TrimSpace(c.Origin),
		Destination: strings.TrimSpace(c.Destination),
		Interests:   workflow.NormalizeInterests(interests),
		StartDate:   start,
		EndDate:     end,
	}
	return params, params.Validate()
}

func parseDate(field, v string) (time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return time.Time{}, fmt.Errorf("%w: %s required", workflow.ErrValidation, field)
	}
	t, err := time.Parse(workflow.DateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", workflow.ErrValidation, field)
	}
	return t, nil
}

// InterestOptions are the suggested interests offered to clients. Any
// other free text is accepted as well.
var InterestOptions = []string{
	"🏛️ Culture & History",
	"🍜 Food & Cuisine",
	"🛍️ Shopping",
	"🏔️ Nature & Hiking",
	"🎭 Nightlife & Entertainment",
	"🏖️ Beach & Relaxation",
	"📸 Photography & Sightseeing",
	"🧘 Wellness & Spa",
	"⚽ Sports & Adventure",
}

// CleanInterest strips leading emoji and decoration from an interest
// label. The placeholder "Other" cleans to "".
func CleanInterest(v string) string {
	v = strings.TrimLeftFunc(v, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "other") {
		return ""
	}
	return v
}
