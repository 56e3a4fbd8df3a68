// Package metrics exposes Prometheus collectors for engine computations and
// HTTP traffic.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/MikeSquared-Agency/RiskAlloc/internal/scoring"
)

const namespace = "riskalloc"

// Recorder implements scoring.Observer.
type Recorder struct {
	computations  *prometheus.CounterVec
	duration      prometheus.Histogram
	consistency   prometheus.Histogram
	confidence    *prometheus.CounterVec
	allocations   *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDurations *prometheus.HistogramVec
}

var _ scoring.Observer = (*Recorder)(nil)

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "computations_total",
			Help:      "Engine computations by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "computation_duration_seconds",
			Help:      "Time spent in a single engine computation.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		consistency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "consistency_ratio",
			Help:      "Consistency ratio of submitted pairwise judgments.",
			Buckets:   []float64{0.02, 0.05, 0.08, 0.1, 0.15, 0.2, 0.3, 0.5},
		}),
		confidence: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "confidence_total",
			Help:      "Per-risk confidence levels produced.",
		}, []string{"level"}),
		allocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allocations_total",
			Help:      "Per-risk allocation outcomes by tier and party.",
		}, []string{"tier", "party"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
		httpDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		r.computations,
		r.duration,
		r.consistency,
		r.confidence,
		r.allocations,
		r.httpRequests,
		r.httpDurations,
	)
	return r
}

// ObserveResult records a successful computation.
func (r *Recorder) ObserveResult(res *scoring.Result, elapsed time.Duration) {
	r.computations.WithLabelValues("ok").Inc()
	r.duration.Observe(elapsed.Seconds())
	r.consistency.Observe(res.Weights.ConsistencyRatio)
	for _, c := range res.Confidence {
		r.confidence.WithLabelValues(string(c.Level)).Inc()
	}
	for _, a := range res.Allocations {
		r.allocations.WithLabelValues("tier1", string(a.Tier1.Party)).Inc()
		r.allocations.WithLabelValues("tier2", string(a.Tier2.Party)).Inc()
	}
}

// ObserveError records a rejected computation.
func (r *Recorder) ObserveError(err error) {
	outcome := "error"
	if errors.Is(err, scoring.ErrInvalidInput) {
		outcome = "invalid"
	}
	r.computations.WithLabelValues(outcome).Inc()
}

// Middleware records request counts and latencies keyed by the chi route
// pattern, so path parameters do not explode label cardinality.
func (r *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		route := "unmatched"
		if rc := chi.RouteContext(req.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		r.httpRequests.WithLabelValues(req.Method, route, strconv.Itoa(status)).Inc()
		r.httpDurations.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())
	})
}
