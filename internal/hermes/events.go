package hermes

import (
	"time"

	"github.com/MikeSquared-Agency/RiskAlloc/internal/scoring"
)

type SurveySavedEvent struct {
	SurveyID    string    `json:"survey_id"`
	Created     bool      `json:"created"`
	IsSubmitted bool      `json:"is_submitted"`
	Timestamp   time.Time `json:"timestamp"`
}

// RiskOutcome is the per-risk digest carried by SurveyCalculatedEvent.
type RiskOutcome struct {
	Tier1      scoring.Party `json:"tier1"`
	Tier2      scoring.Party `json:"tier2"`
	Confidence scoring.Level `json:"confidence"`
	Locks      int           `json:"governance_locks"`
}

type SurveyCalculatedEvent struct {
	SurveyID         string                 `json:"survey_id"`
	ConsistencyRatio float64                `json:"consistency_ratio"`
	Consistent       bool                   `json:"consistent"`
	Weights          []float64              `json:"weights"`
	Risks            map[string]RiskOutcome `json:"risks"`
	Timestamp        time.Time              `json:"timestamp"`
}

// NewSurveyCalculatedEvent digests a full result; subscribers that need
// the reasons and lock texts fetch the survey itself.
func NewSurveyCalculatedEvent(surveyID string, r *scoring.Result) SurveyCalculatedEvent {
	ev := SurveyCalculatedEvent{
		SurveyID:         surveyID,
		ConsistencyRatio: r.Weights.ConsistencyRatio,
		Consistent:       r.Weights.Consistent,
		Weights:          r.Weights.Weights,
		Risks:            make(map[string]RiskOutcome, len(r.Allocations)),
		Timestamp:        r.ComputedAt,
	}
	for code, a := range r.Allocations {
		ev.Risks[code] = RiskOutcome{
			Tier1:      a.Tier1.Party,
			Tier2:      a.Tier2.Party,
			Confidence: r.Confidence[code].Level,
			Locks:      len(r.GovernanceLocks[code]),
		}
	}
	return ev
}
