package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/RiskAlloc/internal/catalog"
	"github.com/MikeSquared-Agency/RiskAlloc/internal/scoring"
	"github.com/MikeSquared-Agency/RiskAlloc/internal/store"
)

type ExplainHandler struct {
	store  store.Store
	logger *slog.Logger
}

func NewExplainHandler(s store.Store, logger *slog.Logger) *ExplainHandler {
	return &ExplainHandler{store: s, logger: logger}
}

// RuleTrace reports whether one decision-table row matched.
type RuleTrace struct {
	Rule    string        `json:"rule"`
	Party   scoring.Party `json:"party"`
	Matched bool          `json:"matched"`
	Decided bool          `json:"decided"`
}

type RiskExplanation struct {
	Tier1Scores scoring.Tier1Scores `json:"tier1_scores"`
	Tier2Scores scoring.Tier2Scores `json:"tier2_scores"`
	Tier1Rules  []RuleTrace         `json:"tier1_rules"`
	Tier2Rules  []RuleTrace         `json:"tier2_rules,omitempty"`
	Allocation  scoring.Allocation  `json:"allocation"`
	Confidence  scoring.Confidence  `json:"confidence"`
}

type ExplainResponse struct {
	SurveyID         uuid.UUID                  `json:"survey_id"`
	ConsistencyRatio float64                    `json:"consistency_ratio"`
	Consistent       bool                       `json:"consistent"`
	Risks            map[string]RiskExplanation `json:"risks"`
}

// Explain replays both rule tables against the stored construct scores so
// a reviewer can see which rows matched and which one decided.
// GET /api/v1/surveys/{id}/explain
func (h *ExplainHandler) Explain(w http.ResponseWriter, r *http.Request) {
	sv, ok := loadSurvey(w, r, h.store)
	if !ok {
		return
	}
	if sv.Results == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "survey has not been calculated"})
		return
	}

	res := sv.Results
	resp := ExplainResponse{
		SurveyID:         sv.ID,
		ConsistencyRatio: res.Weights.ConsistencyRatio,
		Consistent:       res.Weights.Consistent,
		Risks:            make(map[string]RiskExplanation, catalog.RiskCount),
	}
	for _, code := range catalog.RiskCodes() {
		t1, t2, err := res.Constructs.ForRisk(code)
		if err != nil {
			// Missing scores mean the stored row is corrupt.
			h.logger.Error("stored result incomplete", "survey_id", sv.ID, "risk", code, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "stored result is incomplete"})
			return
		}
		a := res.Allocations[code]
		ex := RiskExplanation{
			Tier1Scores: t1,
			Tier2Scores: t2,
			Tier1Rules:  trace(scoring.Tier1Rules(), t1),
			Allocation:  a,
			Confidence:  res.Confidence[code],
		}
		if a.Tier1.Party != scoring.PartyPublic {
			ex.Tier2Rules = trace(scoring.Tier2Rules(), t2)
		}
		resp.Risks[code] = ex
	}
	writeJSON(w, http.StatusOK, resp)
}

func trace[S any](rules []scoring.Rule[S], s S) []RuleTrace {
	out := make([]RuleTrace, len(rules))
	decided := false
	for i, rule := range rules {
		m := rule.Match(s)
		out[i] = RuleTrace{Rule: rule.Name, Party: rule.Party, Matched: m, Decided: m && !decided}
		if m {
			decided = true
		}
	}
	return out
}
