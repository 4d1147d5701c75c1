package progress_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/JaimeStill/wayfarer/internal/progress"
)

func TestTaskExtraction(t *testing.T) {
	tests := []struct {
		name  string
		chunk string
		want  []string
	}{
		{"object form", `{"task": "Searching flights"}` + "\n", []string{"Searching flights"}},
		{"line form", "Task: Compile the guide   \n", []string{"Compile the guide"}},
		{"case insensitive", `{"TASK": "Find hotels"}` + "\n", []string{"Find hotels"}},
		{"object form wins", `{"task": "first"} task: second` + "\n", []string{"first"}},
		{"no task", "Thinking about the trip\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &progress.Recorder{}
			sink := progress.NewSink(rec)

			sink.OnChunk(tt.chunk)

			got := rec.Notifications()
			if len(got) != len(tt.want) {
				t.Fatalf("notifications: got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("notification %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}

			blocks := rec.Blocks()
			if len(blocks) != 1 || blocks[0] != tt.chunk {
				t.Errorf("blocks: got %q, want [%q]", blocks, tt.chunk)
			}
		})
	}
}

func TestNoiseDropped(t *testing.T) {
	rec := &progress.Recorder{}
	sink := progress.NewSink(rec)

	sink.OnChunk("[CrewAIEventsBus] task: hidden\n")
	sink.Flush()

	if n := len(rec.Notifications()); n != 0 {
		t.Errorf("got %d notifications, want 0", n)
	}
	if n := len(rec.Blocks()); n != 0 {
		t.Errorf("got %d blocks, want 0", n)
	}
}

func TestCustomNoiseMarker(t *testing.T) {
	rec := &progress.Recorder{}
	sink := progress.NewSink(rec, progress.WithNoiseMarkers("[telemetry]"))

	sink.OnChunk("[telemetry] sent\n")
	sink.OnChunk("[CrewAIEventsBus] still noise\n")
	sink.OnChunk("kept\n")

	blocks := rec.Blocks()
	if len(blocks) != 1 || blocks[0] != "kept\n" {
		t.Errorf("blocks: got %q", blocks)
	}
}

func TestANSIStripped(t *testing.T) {
	rec := &progress.Recorder{}
	sink := progress.NewSink(rec)

	sink.OnChunk("\x1b[1;32mdone\x1b[0m\n")

	blocks := rec.Blocks()
	if len(blocks) != 1 || blocks[0] != "done\n" {
		t.Errorf("blocks: got %q", blocks)
	}
}

func TestColorCycle(t *testing.T) {
	rec := &progress.Recorder{}
	sink := progress.NewSink(rec)

	for _, name := range []string{"Research", "LocalGuide", "Itinerary"} {
		sink.OnChunk("> Entering new " + name + " chain...\n")
	}

	blocks := rec.Blocks()
	want := []string{
		"> :green[Entering new Research chain]...\n",
		"> :blue[Entering new LocalGuide chain]...\n",
		"> :orange[Entering new Itinerary chain]...\n",
	}
	if len(blocks) != len(want) {
		t.Fatalf("blocks: got %q", blocks)
	}
	for i := range want {
		if blocks[i] != want[i] {
			t.Errorf("block %d: got %q, want %q", i, blocks[i], want[i])
		}
	}

	sink.OnChunk("> Entering new Review chain...\n")
	sink.OnChunk("> Finished chain.\n")

	blocks = rec.Blocks()
	if got := blocks[3]; !strings.Contains(got, ":red[") {
		t.Errorf("palette should wrap to red: %q", got)
	}
	if got := blocks[4]; got != "> :red[Finished chain.]\n" {
		t.Errorf("finished marker should use current color: %q", got)
	}

	events := rec.Events()
	if events[0].State != progress.StateEntered || events[0].Color != "green" {
		t.Errorf("event 0: got %+v", events[0])
	}
	if events[4].State != progress.StateFinished {
		t.Errorf("event 4: got %+v", events[4])
	}
}

func TestEnteredMarker(t *testing.T) {
	tests := []struct {
		name  string
		chunk string
		want  string
	}{
		{"named", "> Entering new Research chain...\n", "> :green[Entering new Research chain]...\n"},
		{"multi word", "> Entering new Local Guide chain...\n", "> :green[Entering new Local Guide chain]...\n"},
		{"bare", "> Entering new chain...\n", "> :green[Entering new chain]...\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &progress.Recorder{}
			progress.NewSink(rec).OnChunk(tt.chunk)

			blocks := rec.Blocks()
			if len(blocks) != 1 || blocks[0] != tt.want {
				t.Fatalf("got %q, want %q", blocks, tt.want)
			}
			if e := rec.Events()[0]; e.State != progress.StateEntered {
				t.Errorf("state: got %q", e.State)
			}
		})
	}
}

func TestBuffering(t *testing.T) {
	rec := &progress.Recorder{}
	sink := progress.NewSink(rec)

	sink.OnChunk("Planning ")
	sink.OnChunk("day one")

	if n := len(rec.Blocks()); n != 0 {
		t.Fatalf("got %d blocks before newline, want 0", n)
	}

	sink.OnChunk(" and two\n")

	blocks := rec.Blocks()
	if len(blocks) != 1 || blocks[0] != "Planning day one and two\n" {
		t.Fatalf("blocks: got %q", blocks)
	}

	sink.OnChunk("tail")
	sink.Flush()
	sink.Flush()

	blocks = rec.Blocks()
	if len(blocks) != 2 || blocks[1] != "tail" {
		t.Errorf("flush: got %q", blocks)
	}
}

func TestWriter(t *testing.T) {
	rec := &progress.Recorder{}
	sink := progress.NewSink(rec)

	n, err := sink.Write([]byte("task: log line\n"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if n != len("task: log line\n") {
		t.Errorf("wrote %d bytes", n)
	}
	if got := rec.Notifications(); len(got) != 1 || got[0] != "log line" {
		t.Errorf("notifications: got %q", got)
	}
}

func TestFdNotSupported(t *testing.T) {
	sink := progress.NewSink(nil)

	if _, err := sink.Fd(); !errors.Is(err, progress.ErrNotSupported) {
		t.Errorf("got %v, want ErrNotSupported", err)
	}
}

func TestTerminal(t *testing.T) {
	var buf bytes.Buffer
	sink := progress.NewSink(progress.NewTerminal(&buf))

	sink.OnChunk(`{"task": "Searching flights"}` + "\n")
	sink.OnChunk("> Entering new Research chain...\n")

	out := buf.String()
	if !strings.Contains(out, "Searching flights") {
		t.Errorf("output missing task label: %q", out)
	}
	if strings.Contains(out, ":green[") {
		t.Errorf("color tag not translated: %q", out)
	}
	if !strings.Contains(out, "Entering new Research chain") {
		t.Errorf("output missing marker text: %q", out)
	}
}
