package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JaimeStill/wayfarer/internal/progress"
	"github.com/JaimeStill/wayfarer/internal/prompts"
	"github.com/JaimeStill/wayfarer/internal/workflow"
	"github.com/JaimeStill/wayfarer/pkg/storage"
)

type fakeBackend struct {
	mu       sync.Mutex
	requests []workflow.Request
	failAt   prompts.Stage
	failErr  error
}

func (f *fakeBackend) Generate(ctx context.Context, req workflow.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)
	if req.Stage == f.failAt {
		return "", f.failErr
	}
	return "output of " + string(req.Stage), nil
}

func (f *fakeBackend) calls() []workflow.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]workflow.Request(nil), f.requests...)
}

func date(s string) time.Time {
	t, err := time.Parse(workflow.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func trip() workflow.TripParameters {
	return workflow.TripParameters{
		Origin:      "Chennai",
		Destination: "Madurai",
		Interests:   []string{"Culture & History", "Food & Cuisine"},
		StartDate:   date("2025-03-01"),
		EndDate:     date("2025-03-04"),
	}
}

func newRuntime(b workflow.Backend) *workflow.Runtime {
	return &workflow.Runtime{
		Backend:     b,
		Definitions: prompts.Defaults(),
		Logger:      slog.New(slog.DiscardHandler),
	}
}

func TestExecute(t *testing.T) {
	backend := &fakeBackend{}
	run, err := workflow.Execute(context.Background(), newRuntime(backend), trip())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	want := []prompts.Stage{prompts.StageResearch, prompts.StageLocalGuide, prompts.StageItinerary}
	if len(run.Results) != len(want) {
		t.Fatalf("results: got %d, want %d", len(run.Results), len(want))
	}
	for i, stage := range want {
		if run.Results[i].Stage != stage {
			t.Errorf("result %d: got %s, want %s", i, run.Results[i].Stage, stage)
		}
		if run.Results[i].Text != "output of "+string(stage) {
			t.Errorf("result %d text: %q", i, run.Results[i].Text)
		}
	}

	if run.Status != workflow.StatusCompleted {
		t.Errorf("status: got %s", run.Status)
	}
	if run.Final() != "output of itinerary" {
		t.Errorf("final: got %q", run.Final())
	}

	calls := backend.calls()
	if len(calls) != 3 {
		t.Fatalf("backend calls: got %d, want 3", len(calls))
	}

	if len(calls[0].Context) != 0 || len(calls[1].Context) != 0 {
		t.Error("independent stages must receive no context")
	}

	itinerary := calls[2]
	if len(itinerary.Context) != 2 ||
		itinerary.Context[0].Stage != prompts.StageResearch ||
		itinerary.Context[1].Stage != prompts.StageLocalGuide {
		t.Errorf("itinerary context: got %+v", itinerary.Context)
	}
	if itinerary.Context[0].Text != "output of research" {
		t.Errorf("context text: got %q", itinerary.Context[0].Text)
	}

	if !strings.Contains(calls[0].Instruction, "Madurai") {
		t.Error("instruction was not rendered with the trip")
	}
	if strings.Contains(itinerary.Instruction, "output of research") {
		t.Error("prior output must not be substituted into templates")
	}
}

func TestExecuteStageFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"rate limited message", errors.New("RateLimitError: Rate limit reached for model"), workflow.ErrRateLimited},
		{"too many requests", errors.New("429 Too Many Requests"), workflow.ErrRateLimited},
		{"other failure", errors.New("connection reset by peer"), workflow.ErrBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{failAt: prompts.StageLocalGuide, failErr: tt.err}

			run, err := workflow.Execute(context.Background(), newRuntime(backend), trip())
			if run != nil {
				t.Error("failed run must not be returned")
			}

			var se *workflow.StageError
			if !errors.As(err, &se) {
				t.Fatalf("got %T %v, want *StageError", err, err)
			}
			if se.Stage != prompts.StageLocalGuide {
				t.Errorf("stage: got %s", se.Stage)
			}
			if !errors.Is(err, tt.kind) {
				t.Errorf("kind: got %v, want %v", se.Kind, tt.kind)
			}
			if !errors.Is(err, tt.err) {
				t.Error("cause not preserved")
			}

			if n := len(backend.calls()); n != 2 {
				t.Errorf("backend calls: got %d, want 2", n)
			}
		})
	}
}

func TestExecuteValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*workflow.TripParameters)
	}{
		{"start after end", func(p *workflow.TripParameters) { p.StartDate = date("2025-03-05") }},
		{"blank destination", func(p *workflow.TripParameters) { p.Destination = "  " }},
		{"blank origin", func(p *workflow.TripParameters) { p.Origin = "" }},
		{"missing date", func(p *workflow.TripParameters) { p.EndDate = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{}
			params := trip()
			tt.mutate(&params)

			run, err := workflow.Execute(context.Background(), newRuntime(backend), params)
			if run != nil || !errors.Is(err, workflow.ErrValidation) {
				t.Errorf("got %v, %v; want ErrValidation", run, err)
			}
			if n := len(backend.calls()); n != 0 {
				t.Errorf("backend calls: got %d, want 0", n)
			}
		})
	}
}

func TestExecuteTemplateFailure(t *testing.T) {
	backend := &fakeBackend{}
	rt := newRuntime(backend)
	rt.Definitions[0].Instructions = "Plan around {{.Budget}}"

	_, err := workflow.Execute(context.Background(), rt, trip())
	if !errors.Is(err, workflow.ErrTemplate) {
		t.Fatalf("got %v, want ErrTemplate", err)
	}
	if n := len(backend.calls()); n != 0 {
		t.Errorf("backend calls: got %d, want 0", n)
	}
}

func TestExecuteFreshRuns(t *testing.T) {
	rt := newRuntime(&fakeBackend{})

	a, err := workflow.Execute(context.Background(), rt, trip())
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	b, err := workflow.Execute(context.Background(), rt, trip())
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	if a.ID == b.ID {
		t.Error("runs share an id")
	}
	if len(a.Results) != 3 || len(b.Results) != 3 {
		t.Errorf("results leaked between runs: %d, %d", len(a.Results), len(b.Results))
	}
}

func TestExecuteCancelled(t *testing.T) {
	backend := &fakeBackend{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := workflow.Execute(ctx, newRuntime(backend), trip()); err == nil {
		t.Fatal("expected error")
	}
	if n := len(backend.calls()); n != 0 {
		t.Errorf("backend calls: got %d, want 0", n)
	}
}

func TestExecuteProgress(t *testing.T) {
	rec := &progress.Recorder{}
	sink := progress.NewSink(rec)
	rt := newRuntime(&fakeBackend{}).WithProgress(sink)

	if _, err := workflow.Execute(context.Background(), rt, trip()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	sink.Flush()

	var entered, finished int
	for _, e := range rec.Events() {
		switch e.State {
		case progress.StateEntered:
			entered++
		case progress.StateFinished:
			finished++
		}
	}
	if entered != 3 || finished != 3 {
		t.Errorf("markers: entered %d, finished %d", entered, finished)
	}
	if n := len(rec.Notifications()); n != 3 {
		t.Errorf("task notifications: got %d, want 3", n)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := workflow.NewMetrics(reg)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}

	rt := newRuntime(&fakeBackend{failAt: prompts.StageItinerary, failErr: errors.New("rate_limit_exceeded")})
	rt.Metrics = m

	if _, err := workflow.Execute(context.Background(), rt, trip()); err == nil {
		t.Fatal("expected failure")
	}

	count, err := testutil.GatherAndCount(reg, "wayfarer_stage_failures_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 1 {
		t.Errorf("failure series: got %d, want 1", count)
	}

	if _, err := workflow.NewMetrics(reg); err == nil {
		t.Error("registering twice should fail")
	}
}

func TestPersistArtifacts(t *testing.T) {
	store := storage.NewLocal(t.TempDir(), slog.New(slog.DiscardHandler))
	defs := prompts.Defaults()

	run, err := workflow.Execute(context.Background(), newRuntime(&fakeBackend{}), trip())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	ctx := context.Background()
	if err := workflow.PersistArtifacts(ctx, store, defs, "plans/test", run); err != nil {
		t.Fatalf("persist: %v", err)
	}

	for _, def := range defs {
		rc, err := store.Download(ctx, workflow.ArtifactKey("plans/test", def))
		if err != nil {
			t.Fatalf("download %s: %v", def.Artifact, err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()

		res, _ := run.Result(def.Stage)
		if string(data) != res.Text {
			t.Errorf("%s: got %q, want %q", def.Artifact, data, res.Text)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want error
	}{
		{errors.New("Rate Limit exceeded"), workflow.ErrRateLimited},
		{errors.New("error code: rate_limit_exceeded"), workflow.ErrRateLimited},
		{errors.New("RateLimitError"), workflow.ErrRateLimited},
		{errors.New("too many requests"), workflow.ErrRateLimited},
		{statusError(429), workflow.ErrRateLimited},
		{statusError(500), workflow.ErrBackend},
		{fmt.Errorf("wrap: %w", prompts.ErrTemplate), workflow.ErrTemplate},
		{errors.New("model not found"), workflow.ErrBackend},
		{fmt.Errorf("%w: origin required", workflow.ErrValidation), workflow.ErrValidation},
	}

	for _, tt := range tests {
		if got := workflow.Classify(tt.err); got != tt.want {
			t.Errorf("Classify(%v): got %v, want %v", tt.err, got, tt.want)
		}
	}

	if workflow.Classify(nil) != nil {
		t.Error("Classify(nil) should be nil")
	}
}

type statusError int

func (e statusError) Error() string   { return fmt.Sprintf("provider returned %d", int(e)) }
func (e statusError) StatusCode() int { return int(e) }

func TestTripParameters(t *testing.T) {
	p := trip()

	if d := p.Days(); d != 4 {
		t.Errorf("days: got %d, want 4", d)
	}

	p.EndDate = p.StartDate
	if d := p.Days(); d != 1 {
		t.Errorf("single day trip: got %d", d)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("same-day trip should be valid: %v", err)
	}

	if got := trip().InterestList(); got != "Culture & History, Food & Cuisine" {
		t.Errorf("interests: got %q", got)
	}

	p.Interests = nil
	if got := p.InterestList(); got != "none specified" {
		t.Errorf("empty interests: got %q", got)
	}

	got := workflow.NormalizeInterests([]string{" Food ", "", "Art", "Food"})
	if len(got) != 2 || got[0] != "Food" || got[1] != "Art" {
		t.Errorf("normalize: got %q", got)
	}
}

func TestDuplicateLocations(t *testing.T) {
	text := `
- [Meenakshi Temple](https://www.google.com/maps/search/?api=1&query=Meenakshi+Temple+Madurai)
- [Gandhi Museum](https://www.google.com/maps/search/?api=1&query=Gandhi+Museum+Madurai)
- [Meenakshi Temple again](https://www.google.com/maps/search/?api=1&query=meenakshi+temple+madurai)
`
	got := workflow.DuplicateLocations(text)
	if len(got) != 1 || got[0] != "meenakshi temple madurai" {
		t.Errorf("got %q", got)
	}

	if got := workflow.DuplicateLocations("no links"); len(got) != 0 {
		t.Errorf("got %q", got)
	}
}
