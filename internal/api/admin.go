package api

import (
	"net/http"
	"strconv"

	"github.com/MikeSquared-Agency/RiskAlloc/internal/store"
)

type AdminHandler struct {
	store store.Store
}

func NewAdminHandler(s store.Store) *AdminHandler {
	return &AdminHandler{store: s}
}

// Responses lists survey summaries, newest first. Optional query
// parameters: submitted (bool), limit, offset.
// GET /api/v1/admin/responses
func (h *AdminHandler) Responses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter store.SurveyFilter
	if v := q.Get("submitted"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid submitted flag"})
			return
		}
		filter.Submitted = &b
	}
	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + name})
			return
		}
		*dst = n
	}

	surveys, err := h.store.ListSurveys(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if surveys == nil {
		surveys = []*store.SurveySummary{}
	}
	writeJSON(w, http.StatusOK, surveys)
}
