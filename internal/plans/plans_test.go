package plans_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/JaimeStill/wayfarer/internal/plans"
	"github.com/JaimeStill/wayfarer/internal/prompts"
	"github.com/JaimeStill/wayfarer/internal/workflow"
	"github.com/JaimeStill/wayfarer/pkg/storage"
)

func TestCleanInterest(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"🏛️ Culture & History", "Culture & History"},
		{"⚽ Sports & Adventure", "Sports & Adventure"},
		{"  Jazz clubs ", "Jazz clubs"},
		{"Other", ""},
		{"3D art", "3D art"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := plans.CleanInterest(tt.in); got != tt.want {
			t.Errorf("CleanInterest(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInterestOptionsClean(t *testing.T) {
	for _, opt := range plans.InterestOptions {
		if plans.CleanInterest(opt) == "" {
			t.Errorf("option %q cleans to nothing", opt)
		}
	}
}

func TestCreateCommandParams(t *testing.T) {
	cmd := plans.CreateCommand{
		Origin:      " Chennai ",
		Destination: "Madurai",
		Interests:   []string{"🍜 Food & Cuisine", "Food & Cuisine", "Other", "Temples"},
		StartDate:   "2025-03-01",
		EndDate:     "2025-03-04",
	}

	params, err := cmd.Params()
	if err != nil {
		t.Fatalf("params: %v", err)
	}

	if params.Origin != "Chennai" {
		t.Errorf("origin: got %q", params.Origin)
	}
	if got := params.InterestList(); got != "Food & Cuisine, Temples" {
		t.Errorf("interests: got %q", got)
	}
	if params.Days() != 4 {
		t.Errorf("days: got %d", params.Days())
	}
}

func TestCreateCommandParamsInvalid(t *testing.T) {
	valid := plans.CreateCommand{
		Origin:      "Chennai",
		Destination: "Madurai",
		StartDate:   "2025-03-01",
		EndDate:     "2025-03-04",
	}

	tests := []struct {
		name   string
		modify func(*plans.CreateCommand)
	}{
		{"missing origin", func(c *plans.CreateCommand) { c.Origin = " " }},
		{"missing destination", func(c *plans.CreateCommand) { c.Destination = "" }},
		{"missing start", func(c *plans.CreateCommand) { c.StartDate = "" }},
		{"bad end", func(c *plans.CreateCommand) { c.EndDate = "04/03/2025" }},
		{"reversed", func(c *plans.CreateCommand) { c.StartDate = "2025-03-05" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := valid
			tt.modify(&cmd)
			if _, err := cmd.Params(); !errors.Is(err, workflow.ErrValidation) {
				t.Errorf("got %v, want validation error", err)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	stageErr := func(kind error) error {
		return &workflow.StageError{Stage: prompts.StageResearch, Kind: kind, Err: errors.New("boom")}
	}

	tests := []struct {
		err  error
		want int
	}{
		{plans.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: itinerary artifact", plans.ErrNotFound), http.StatusNotFound},
		{plans.ErrNotReady, http.StatusConflict},
		{plans.ErrInvalidRequest, http.StatusBadRequest},
		{prompts.ErrInvalidStage, http.StatusBadRequest},
		{fmt.Errorf("%w: origin required", workflow.ErrValidation), http.StatusBadRequest},
		{stageErr(workflow.ErrRateLimited), http.StatusTooManyRequests},
		{stageErr(workflow.ErrBackend), http.StatusBadGateway},
		{stageErr(workflow.ErrTemplate), http.StatusInternalServerError},
		{errors.New("unknown"), http.StatusInternalServerError},
		{fmt.Errorf("download: %w", storage.ErrInvalidKey), http.StatusBadRequest},
	}

	for _, tt := range tests {
		if got := plans.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v): got %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestInterestsValue(t *testing.T) {
	v, err := plans.Interests(nil).Value()
	if err != nil || v != "[]" {
		t.Errorf("nil interests: got %v, %v", v, err)
	}

	var in plans.Interests
	if err := in.Scan([]byte(`["Food","Temples"]`)); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(in) != 2 || in[1] != "Temples" {
		t.Errorf("got %v", in)
	}

	if err := in.Scan(42); err == nil {
		t.Error("expected error for unsupported type")
	}
}
