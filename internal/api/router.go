package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/RiskAlloc/internal/hermes"
	"github.com/MikeSquared-Agency/RiskAlloc/internal/metrics"
	"github.com/MikeSquared-Agency/RiskAlloc/internal/scoring"
	"github.com/MikeSquared-Agency/RiskAlloc/internal/store"
)

type RouterConfig struct {
	AdminToken         string
	RateLimitPerMinute int
}

// NewRouter wires the public API. h and rec may be nil.
func NewRouter(s store.Store, h hermes.Client, e *scoring.Engine, rec *metrics.Recorder, cfg RouterConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	if rec != nil {
		r.Use(rec.Middleware)
	}
	r.Use(RateLimitMiddleware(cfg.RateLimitPerMinute))

	surveys := NewSurveysHandler(s, h, logger)
	calc := NewCalculateHandler(s, h, e, logger)
	export := NewExportHandler(s, logger)
	explain := NewExplainHandler(s, logger)
	admin := NewAdminHandler(s)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", CatalogHandler())

		r.Post("/surveys", surveys.Save)
		r.Get("/surveys/{id}", surveys.Get)
		r.Get("/surveys/{id}/explain", explain.Explain)
		r.Get("/surveys/{id}/export.json", export.JSON)
		r.Get("/surveys/{id}/export.csv", export.CSV)

		r.Post("/calculate", calc.Calculate)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminToken))
			r.Get("/admin/responses", admin.Responses)
		})
	})

	return r
}

func NewMetricsRouter(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}
