// Package progress filters the diagnostic text pushed during a pipeline run
// and forwards readable updates to a display surface.
package progress

import (
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

// ErrNotSupported is returned when a caller asks the sink for a low-level
// stream handle.
var ErrNotSupported = errors.New("progress sink has no file descriptor")

// Markers recognized in the chunk stream.
const (
	NoiseMarker    = "[CrewAIEventsBus]"
	FinishedMarker = "Finished chain."
)

// DefaultPalette is the color cycle used for stage-entered markers.
var DefaultPalette = []string{"red", "green", "blue", "orange"}

var (
	enteredPattern    = regexp.MustCompile(`Entering new (?:[^\n]*? )?chain`)
	taskObjectPattern = regexp.MustCompile(`(?i)"task"\s*:\s*"(.*?)"`)
	taskLinePattern   = regexp.MustCompile(`(?i)task\s*:\s*([^\n]*)`)
)

// Emitter receives raw progress chunks pushed by the generation backend.
type Emitter interface {
	OnChunk(raw string)
}

// Display is the surface progress is rendered to. Notify shows a transient
// label; Markdown appends a block of accumulated text.
type Display interface {
	Notify(label string)
	Markdown(text string)
}

// Observer is implemented by displays that also want the parsed event for
// every accepted chunk.
type Observer interface {
	Observe(e Event)
}

// State tags a chunk that marks a stage boundary.
type State string

const (
	StateEntered  State = "entered"
	StateFinished State = "finished"
)

// Event is the parsed form of one accepted chunk. It is transient.
type Event struct {
	Raw   string `json:"-"`
	Text  string `json:"text"`
	Task  string `json:"task,omitempty"`
	State State  `json:"state,omitempty"`
	Color string `json:"color,omitempty"`
}

// Sink turns raw chunks into display updates. It is safe for use by the
// backend goroutine and the caller at the same time; chunk order is kept.
type Sink struct {
	mu      sync.Mutex
	display Display
	palette []string
	noise   []string
	index   int
	buf     strings.Builder
}

// Option configures a Sink.
type Option func(*Sink)

// WithPalette replaces the color cycle. An empty palette is ignored.
func WithPalette(colors ...string) Option {
	return func(s *Sink) {
		if len(colors) > 0 {
			s.palette = colors
		}
	}
}

// WithNoiseMarkers adds literal markers whose chunks are discarded.
func WithNoiseMarkers(markers ...string) Option {
	return func(s *Sink) {
		s.noise = append(s.noise, markers...)
	}
}

// NewSink creates a sink forwarding to display. A nil display discards output.
func NewSink(display Display, opts ...Option) *Sink {
	if display == nil {
		display = Discard
	}

	s := &Sink{
		display: display,
		palette: DefaultPalette,
		noise:   []string{NoiseMarker},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// OnChunk processes one raw chunk. Chunks need not align with lines.
func (s *Sink) OnChunk(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cleaned := ansi.Strip(raw)

	for _, marker := range s.noise {
		if strings.Contains(cleaned, marker) {
			return
		}
	}

	e := Event{Raw: raw, Task: extractTask(cleaned)}
	if e.Task != "" {
		s.display.Notify(e.Task)
	}

	cleaned = enteredPattern.ReplaceAllStringFunc(cleaned, func(m string) string {
		s.index = (s.index + 1) % len(s.palette)
		e.State = StateEntered
		e.Color = s.palette[s.index]
		return tag(e.Color, m)
	})

	if strings.Contains(cleaned, FinishedMarker) {
		if e.State == "" {
			e.State = StateFinished
		}
		e.Color = s.palette[s.index]
		cleaned = strings.ReplaceAll(cleaned, FinishedMarker, tag(e.Color, FinishedMarker))
	}

	e.Text = cleaned
	if o, ok := s.display.(Observer); ok {
		o.Observe(e)
	}

	s.buf.WriteString(cleaned)
	if strings.Contains(raw, "\n") {
		s.flush()
	}
}

// Write adapts the sink to io.Writer so loggers can stream into it.
func (s *Sink) Write(p []byte) (int, error) {
	s.OnChunk(string(p))
	return len(p), nil
}

// Flush emits any buffered text that has not seen a line terminator.
func (s *Sink) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flush()
}

// Fd always fails: the sink is not backed by an operating system stream.
func (s *Sink) Fd() (uintptr, error) {
	return 0, ErrNotSupported
}

func (s *Sink) flush() {
	if s.buf.Len() == 0 {
		return
	}
	s.display.Markdown(s.buf.String())
	s.buf.Reset()
}

func extractTask(text string) string {
	if m := taskObjectPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := taskLinePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func tag(color, text string) string {
	return ":" + color + "[" + text + "]"
}
