package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/JaimeStill/wayfarer/internal/prompts"
)

func TestStagesMarkdown(t *testing.T) {
	md := stagesMarkdown(prompts.Defaults())
	lines := strings.Split(strings.TrimSpace(md), "\n")

	if len(lines) != 5 {
		t.Fatalf("rows: got %d\n%s", len(lines), md)
	}
	if !strings.Contains(lines[2], "Destination Research") || !strings.Contains(lines[2], "| - |") {
		t.Errorf("research row: %s", lines[2])
	}
	if !strings.Contains(lines[4], "Destination Research, Local Guide") {
		t.Errorf("itinerary row: %s", lines[4])
	}
	if !strings.Contains(lines[4], "travel_plan.md") {
		t.Errorf("itinerary artifact: %s", lines[4])
	}
}

func TestPrintItineraryRaw(t *testing.T) {
	var buf bytes.Buffer
	if err := printItinerary(&buf, "# Day 1", true); err != nil {
		t.Fatalf("print: %v", err)
	}
	if buf.String() != "# Day 1\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestPlanRequiresFlags(t *testing.T) {
	cmd := planCmd()
	cmd.SetArgs([]string{"--from", "Chennai"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err == nil {
		t.Error("expected missing flag error")
	}
}
