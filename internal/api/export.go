package api

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/MikeSquared-Agency/RiskAlloc/internal/catalog"
	"github.com/MikeSquared-Agency/RiskAlloc/internal/scoring"
	"github.com/MikeSquared-Agency/RiskAlloc/internal/store"
)

type ExportHandler struct {
	store  store.Store
	logger *slog.Logger
}

func NewExportHandler(s store.Store, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{store: s, logger: logger}
}

var csvHeader = []string{"Risk", "Weight", "Exposure", "Phase", "Tier1", "Tier2", "Confidence"}

// JSON downloads the whole survey record.
// GET /api/v1/surveys/{id}/export.json
func (h *ExportHandler) JSON(w http.ResponseWriter, r *http.Request) {
	sv, ok := loadSurvey(w, r, h.store)
	if !ok {
		return
	}
	w.Header().Set("Content-Disposition", attachment("kpbu-survey", sv, "json"))
	writeJSON(w, http.StatusOK, sv)
}

// CSV downloads one row per risk: weight in percent, lifecycle inputs,
// both tier allocations and the confidence label.
// GET /api/v1/surveys/{id}/export.csv
func (h *ExportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	sv, ok := loadSurvey(w, r, h.store)
	if !ok {
		return
	}
	if sv.Results == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "survey has not been calculated"})
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment("kpbu-results", sv, "csv"))
	w.WriteHeader(http.StatusOK)

	// The status is already sent; a failed write can only be logged.
	if err := writeCSV(w, resultRows(sv.Results)); err != nil {
		h.logger.Error("csv export truncated", "survey_id", sv.ID, "error", err)
	}
}

func writeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func resultRows(res *scoring.Result) [][]string {
	rows := make([][]string, 0, catalog.RiskCount)
	for i, code := range catalog.RiskCodes() {
		var weight string
		if i < len(res.Weights.Weights) {
			weight = strconv.FormatFloat(res.Weights.Weights[i]*100, 'f', 2, 64)
		}
		var exposure, phase string
		if e := res.Lifecycle[code]; e.Exposure != nil {
			exposure = strconv.Itoa(*e.Exposure)
		}
		if e := res.Lifecycle[code]; e.Phase != nil {
			phase = *e.Phase
		}
		a := res.Allocations[code]
		rows = append(rows, []string{
			code,
			weight,
			exposure,
			phase,
			string(a.Tier1.Party),
			string(a.Tier2.Party),
			res.Confidence[code].Level.Label(),
		})
	}
	return rows
}

func attachment(prefix string, sv *store.Survey, ext string) string {
	return fmt.Sprintf(`attachment; filename="%s-%s.%s"`, prefix, sv.UpdatedAt.UTC().Format("2006-01-02"), ext)
}
