package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/MikeSquared-Agency/RiskAlloc/internal/scoring"
)

func TestObserveResult(t *testing.T) {
	rec := NewRecorder(prometheus.NewRegistry())

	res := &scoring.Result{
		Weights: scoring.WeightsResult{ConsistencyRatio: 0.04, Consistent: true},
		Allocations: map[string]scoring.Allocation{
			"R1": {
				Tier1: scoring.Decision{Party: scoring.PartyPublic},
				Tier2: scoring.Tier2Decision{Decision: scoring.Decision{Party: scoring.PartyNotApplicable}},
			},
			"R2": {
				Tier1: scoring.Decision{Party: scoring.PartyPrivate},
				Tier2: scoring.Tier2Decision{Decision: scoring.Decision{Party: scoring.PartySubcontractor}},
			},
		},
		Confidence: map[string]scoring.Confidence{
			"R1": {Level: scoring.LevelLow},
			"R2": {Level: scoring.LevelHigh},
		},
	}
	rec.ObserveResult(res, 3*time.Millisecond)
	rec.ObserveResult(res, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.computations.WithLabelValues("ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.confidence.WithLabelValues("low")))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.allocations.WithLabelValues("tier1", "Publik/PDAM")))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.allocations.WithLabelValues("tier2", "EPC/O&M")))
	assert.Equal(t, 1, testutil.CollectAndCount(rec.consistency))
}

func TestObserveError(t *testing.T) {
	rec := NewRecorder(prometheus.NewRegistry())

	rec.ObserveError(fmt.Errorf("%w: bad label", scoring.ErrInvalidInput))
	rec.ObserveError(scoring.ErrUnsupportedOrder)

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.computations.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.computations.WithLabelValues("error")))
}

func TestNewRecorderRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRecorder(reg)
	assert.Panics(t, func() { NewRecorder(reg) })
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	rec := NewRecorder(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(rec.Middleware)
	r.Get("/surveys/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/surveys/"+id, nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(rec.httpRequests.WithLabelValues("GET", "/surveys/{id}", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(rec.httpRequests))
}
