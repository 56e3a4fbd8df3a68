package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/RiskAlloc/internal/catalog"
	"github.com/MikeSquared-Agency/RiskAlloc/internal/scoring"
)

type ScaleEntry struct {
	Label      catalog.Label `json:"label"`
	Fuzzy      catalog.TFN   `json:"fuzzy"`
	Crisp      float64       `json:"crisp"`
	Reciprocal catalog.Label `json:"reciprocal"`
}

type CatalogResponse struct {
	Risks                []catalog.Risk `json:"risks"`
	Phases               []string       `json:"phases"`
	Scale                []ScaleEntry   `json:"scale"`
	Tier1Items           []catalog.Item `json:"tier1_items"`
	Tier2Items           []catalog.Item `json:"tier2_items"`
	UnknownToken         string         `json:"unknown_token"`
	ConsistencyThreshold float64        `json:"consistency_threshold"`
}

// buildCatalog is computed once; the catalog never changes at runtime.
func buildCatalog() CatalogResponse {
	labels := catalog.Labels()
	scale := make([]ScaleEntry, 0, len(labels))
	for _, l := range labels {
		tfn, _ := catalog.FuzzyValue(l)
		crisp, _ := catalog.CrispValue(l)
		rec, _ := catalog.Reciprocal(l)
		scale = append(scale, ScaleEntry{Label: l, Fuzzy: tfn, Crisp: crisp, Reciprocal: rec})
	}
	return CatalogResponse{
		Risks:                catalog.Risks(),
		Phases:               catalog.Phases(),
		Scale:                scale,
		Tier1Items:           catalog.Items(catalog.Tier1),
		Tier2Items:           catalog.Items(catalog.Tier2),
		UnknownToken:         scoring.UnknownToken,
		ConsistencyThreshold: scoring.ConsistencyThreshold,
	}
}

// CatalogHandler serves the reference data a questionnaire client renders.
// GET /api/v1/catalog
func CatalogHandler() http.HandlerFunc {
	body := buildCatalog()
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, body)
	}
}
