package hermes

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/MikeSquared-Agency/RiskAlloc/internal/scoring"
)

func TestSubjectsMatchStream(t *testing.T) {
	prefix := strings.TrimSuffix(streamSubjects, ">")
	for _, s := range []string{
		SubjectSurveySaved("0b7c"),
		SubjectSurveyCalculated("0b7c"),
	} {
		if !strings.HasPrefix(s, prefix) {
			t.Errorf("subject %s is not captured by stream %s", s, streamSubjects)
		}
	}
	if got := SubjectSurveyCalculated("abc"); got != "riskalloc.survey.abc.calculated" {
		t.Errorf("unexpected subject %s", got)
	}
}

func TestStreamMaxAgeParses(t *testing.T) {
	d, err := time.ParseDuration(StreamMaxAge)
	if err != nil || d <= 0 {
		t.Fatalf("StreamMaxAge %q: %v", StreamMaxAge, err)
	}
}

func TestNewSurveyCalculatedEvent(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	r := &scoring.Result{
		Weights: scoring.WeightsResult{Weights: []float64{0.5, 0.5}, ConsistencyRatio: 0.12},
		Allocations: map[string]scoring.Allocation{
			"R6": {
				Tier1: scoring.Decision{Party: scoring.PartyPublic},
				Tier2: scoring.Tier2Decision{Decision: scoring.Decision{Party: scoring.PartyNotApplicable}},
			},
		},
		GovernanceLocks: map[string][]string{"R6": {"a", "b", "c", "d"}},
		Confidence:      map[string]scoring.Confidence{"R6": {Level: scoring.LevelLow}},
		ComputedAt:      at,
	}

	ev := NewSurveyCalculatedEvent("s-1", r)
	if ev.Consistent || ev.ConsistencyRatio != 0.12 {
		t.Errorf("unexpected consistency fields %+v", ev)
	}
	want := RiskOutcome{Tier1: scoring.PartyPublic, Tier2: scoring.PartyNotApplicable, Confidence: scoring.LevelLow, Locks: 4}
	if ev.Risks["R6"] != want {
		t.Errorf("got %+v, want %+v", ev.Risks["R6"], want)
	}

	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"tier1":"Publik/PDAM"`) {
		t.Errorf("unexpected payload %s", data)
	}
}
