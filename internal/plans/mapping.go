package plans

import (
	"net/url"

	"github.com/JaimeStill/wayfarer/pkg/query"
	"github.com/JaimeStill/wayfarer/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "plans", "p").
	Project("id", "ID").
	Project("origin", "Origin").
	Project("destination", "Destination").
	Project("interests", "Interests").
	Project("start_date", "StartDate").
	Project("end_date", "EndDate").
	Project("status", "Status").
	Project("itinerary", "Itinerary").
	Project("failure", "Failure").
	Project("failure_stage", "FailureStage").
	Project("failure_kind", "FailureKind").
	Project("artifact_prefix", "ArtifactPrefix").
	Project("created_at", "CreatedAt").
	Project("completed_at", "CompletedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

var errs = repository.Errors{
	NotFound:  ErrNotFound,
	Duplicate: ErrDuplicate,
	Invalid:   ErrInvalidRequest,
}

// Filters narrows plan queries. Nil fields are ignored. Origin and
// Destination match case-insensitively on substrings.
type Filters struct {
	Status      *string `json:"status,omitempty"`
	Origin      *string `json:"origin,omitempty"`
	Destination *string `json:"destination,omitempty"`
	FailureKind *string `json:"failure_kind,omitempty"`
}

func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereContains("Origin", f.Origin).
		WhereContains("Destination", f.Destination).
		WhereEquals("FailureKind", f.FailureKind)
}

func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	for name, field := range map[string]**string{
		"status":       &f.Status,
		"origin":       &f.Origin,
		"destination":  &f.Destination,
		"failure_kind": &f.FailureKind,
	} {
		if v := values.Get(name); v != "" {
			*field = &v
		}
	}
	return f
}

func scanPlan(s repository.Scanner) (Plan, error) {
	var p Plan
	err := s.Scan(
		&p.ID,
		&p.Origin,
		&p.Destination,
		&p.Interests,
		&p.StartDate,
		&p.EndDate,
		&p.Status,
		&p.Itinerary,
		&p.Failure,
		&p.FailureStage,
		&p.FailureKind,
		&p.ArtifactPrefix,
		&p.CreatedAt,
		&p.CompletedAt,
	)
	return p, err
}
