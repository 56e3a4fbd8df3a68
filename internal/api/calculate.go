package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/RiskAlloc/internal/hermes"
	"github.com/MikeSquared-Agency/RiskAlloc/internal/scoring"
	"github.com/MikeSquared-Agency/RiskAlloc/internal/store"
)

type CalculateHandler struct {
	store  store.Store
	hermes hermes.Client
	engine *scoring.Engine
	logger *slog.Logger
}

func NewCalculateHandler(s store.Store, h hermes.Client, e *scoring.Engine, logger *slog.Logger) *CalculateHandler {
	return &CalculateHandler{store: s, hermes: h, engine: e, logger: logger}
}

// CalculateRequest is a full survey. IsSubmitted defaults to true when
// absent.
type CalculateRequest struct {
	store.Survey
	IsSubmitted *bool `json:"is_submitted,omitempty"`
}

type CalculateResponse struct {
	SurveyID uuid.UUID       `json:"survey_id"`
	Results  *scoring.Result `json:"results"`
	Message  string          `json:"message"`
}

// Calculate computes the recommendation and saves it with the survey.
// POST /api/v1/calculate
func (h *CalculateHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.engine.Compute(&req.Input)
	if err != nil {
		writeError(w, err)
		return
	}

	sv := req.Survey
	sv.Results = res
	sv.IsSubmitted = req.IsSubmitted == nil || *req.IsSubmitted

	if sv.ID == uuid.Nil {
		err = h.store.CreateSurvey(r.Context(), &sv)
	} else {
		err = h.store.UpdateSurvey(r.Context(), &sv)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	publish(h.hermes, h.logger, hermes.SubjectSurveyCalculated(sv.ID.String()),
		hermes.NewSurveyCalculatedEvent(sv.ID.String(), res))

	writeJSON(w, http.StatusOK, CalculateResponse{
		SurveyID: sv.ID,
		Results:  res,
		Message:  "calculation completed and saved",
	})
}
