package plans

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/JaimeStill/wayfarer/internal/progress"
	"github.com/JaimeStill/wayfarer/internal/workflow"
	"github.com/JaimeStill/wayfarer/pkg/handlers"
)

// streamDisplay forwards progress to a server-sent event stream. Send
// failures mean the client left; they are logged once and later updates
// are dropped.
type streamDisplay struct {
	mu     sync.Mutex
	es     *handlers.EventStream
	logger *slog.Logger
	closed bool
}

func newStreamDisplay(es *handlers.EventStream, logger *slog.Logger) *streamDisplay {
	return &streamDisplay{es: es, logger: logger}
}

func (d *streamDisplay) Notify(label string) {
	d.send("notify", map[string]string{"label": label})
}

func (d *streamDisplay) Markdown(text string) {
	d.send("markdown", map[string]string{"text": text})
}

func (d *streamDisplay) Observe(e progress.Event) {
	if e.State == "" {
		return
	}
	d.send("progress", e)
}

func (d *streamDisplay) send(event string, data any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	if err := d.es.Send(event, data); err != nil {
		d.closed = true
		d.logger.Warn("event stream closed", "event", event, "error", err)
	}
}

type failureEvent struct {
	Error  string     `json:"error"`
	Status int        `json:"status"`
	Kind   string     `json:"kind"`
	Stage  string     `json:"stage,omitempty"`
	PlanID *uuid.UUID `json:"plan_id,omitempty"`
}

func newFailureEvent(p *Plan, err error) failureEvent {
	ev := failureEvent{
		Error:  err.Error(),
		Status: MapHTTPStatus(err),
		Kind:   workflow.KindName(workflow.Classify(err)),
	}

	var se *workflow.StageError
	if errors.As(err, &se) {
		ev.Kind = workflow.KindName(se.Kind)
		ev.Stage = string(se.Stage)
	}
	if p != nil {
		ev.PlanID = &p.ID
	}
	return ev
}
