package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/wayfarer/internal/prompts"
)

func TestListStages(t *testing.T) {
	rec := httptest.NewRecorder()
	listStages(prompts.Defaults())(rec, httptest.NewRequest(http.MethodGet, "/stages", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	var got []stageInfo
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("stages: got %d", len(got))
	}

	want := []prompts.Stage{prompts.StageResearch, prompts.StageLocalGuide, prompts.StageItinerary}
	for i, s := range got {
		if s.Stage != want[i] {
			t.Errorf("position %d: got %s, want %s", i, s.Stage, want[i])
		}
		if s.Title == "" || s.Role == "" || s.Artifact == "" {
			t.Errorf("%s: incomplete %+v", s.Stage, s)
		}
	}

	if len(got[0].DependsOn) != 0 || len(got[2].DependsOn) != 2 {
		t.Errorf("dependencies: research %v, itinerary %v", got[0].DependsOn, got[2].DependsOn)
	}
}
