package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/RiskAlloc/internal/hermes"
	"github.com/MikeSquared-Agency/RiskAlloc/internal/store"
)

type SurveysHandler struct {
	store  store.Store
	hermes hermes.Client
	logger *slog.Logger
}

func NewSurveysHandler(s store.Store, h hermes.Client, logger *slog.Logger) *SurveysHandler {
	return &SurveysHandler{store: s, hermes: h, logger: logger}
}

type SaveSurveyResponse struct {
	ID      uuid.UUID `json:"id"`
	Message string    `json:"message"`
}

// Save stores a draft without computing anything. A body without an id
// creates a survey; with an id it replaces that survey's answers while
// keeping any previously computed results.
// POST /api/v1/surveys
func (h *SurveysHandler) Save(w http.ResponseWriter, r *http.Request) {
	var sv store.Survey
	if err := decodeBody(r, &sv); err != nil {
		writeError(w, err)
		return
	}
	if err := sv.Validate(); err != nil {
		writeError(w, err)
		return
	}

	created := sv.ID == uuid.Nil
	if created {
		sv.Results = nil
		sv.IsSubmitted = false
		if err := h.store.CreateSurvey(r.Context(), &sv); err != nil {
			writeError(w, err)
			return
		}
	} else {
		existing, err := h.store.GetSurvey(r.Context(), sv.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		sv.Results = existing.Results
		sv.IsSubmitted = existing.IsSubmitted
		if err := h.store.UpdateSurvey(r.Context(), &sv); err != nil {
			writeError(w, err)
			return
		}
	}

	publish(h.hermes, h.logger, hermes.SubjectSurveySaved(sv.ID.String()), hermes.SurveySavedEvent{
		SurveyID:    sv.ID.String(),
		Created:     created,
		IsSubmitted: sv.IsSubmitted,
		Timestamp:   time.Now().UTC(),
	})

	if created {
		writeJSON(w, http.StatusCreated, SaveSurveyResponse{ID: sv.ID, Message: "survey created"})
		return
	}
	writeJSON(w, http.StatusOK, SaveSurveyResponse{ID: sv.ID, Message: "survey updated"})
}

// Get returns the full survey record.
// GET /api/v1/surveys/{id}
func (h *SurveysHandler) Get(w http.ResponseWriter, r *http.Request) {
	sv, ok := loadSurvey(w, r, h.store)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sv)
}

func loadSurvey(w http.ResponseWriter, r *http.Request, s store.Store) (*store.Survey, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid survey id"})
		return nil, false
	}
	sv, err := s.GetSurvey(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return sv, true
}

func publish(h hermes.Client, logger *slog.Logger, subject string, event interface{}) {
	if h == nil {
		return
	}
	if err := h.Publish(subject, event); err != nil {
		logger.Warn("publish failed", "subject", subject, "error", err)
	}
}
