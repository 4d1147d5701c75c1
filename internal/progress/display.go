package progress

import (
	"fmt"
	"io"
	"regexp"
	"slices"
	"sync"

	"github.com/muesli/termenv"
)

type discard struct{}

func (discard) Notify(string)   {}
func (discard) Markdown(string) {}

// Discard drops every update.
var Discard Display = discard{}

// Recorder keeps every update in memory. Used by tests and by callers that
// replay progress after a run.
type Recorder struct {
	mu            sync.Mutex
	notifications []string
	blocks        []string
	events        []Event
}

func (r *Recorder) Notify(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, label)
}

func (r *Recorder) Markdown(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blocks = append(r.blocks, text)
}

func (r *Recorder) Observe(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Notifications returns the labels passed to Notify, in order.
func (r *Recorder) Notifications() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.notifications)
}

// Blocks returns the text passed to Markdown, in order.
func (r *Recorder) Blocks() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.blocks)
}

// Events returns the parsed events for every accepted chunk.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

var colorTag = regexp.MustCompile(`:(\w+)\[([^\]]*)\]`)

var hex = map[string]string{
	"red":    "#ef4444",
	"green":  "#22c55e",
	"blue":   "#3b82f6",
	"orange": "#f97316",
}

// Terminal writes progress to a terminal, translating color tags into
// escape sequences the output supports.
type Terminal struct {
	mu  sync.Mutex
	out *termenv.Output
}

// NewTerminal creates a terminal display writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{out: termenv.NewOutput(w)}
}

func (t *Terminal) Notify(label string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.out.String("🤖 " + label).Bold().Foreground(t.out.Color(hex["blue"]))
	fmt.Fprintln(t.out, s.String())
}

func (t *Terminal) Markdown(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	colored := colorTag.ReplaceAllStringFunc(text, func(m string) string {
		parts := colorTag.FindStringSubmatch(m)
		code, ok := hex[parts[1]]
		if !ok {
			return parts[2]
		}
		return t.out.String(parts[2]).Foreground(t.out.Color(code)).String()
	})

	fmt.Fprint(t.out, colored)
}
