// Package api exposes the render engine over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/autochroma/autochroma/internal/engine"
)

// Server bundles the engine with its HTTP handlers.
type Server struct {
	engine *engine.Engine
	log    zerolog.Logger
}

// NewServer creates a Server for the given engine.
func NewServer(eng *engine.Engine, log zerolog.Logger) *Server {
	return &Server{engine: eng, log: log}
}

// Router builds the chi route tree. gatherer serves /metrics; pass nil to
// use the default Prometheus gatherer.
func (s *Server) Router(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/probe", s.Probe)
		r.Get("/assets", s.ListAssets)
		r.Route("/assets/{asset_id}", func(r chi.Router) {
			r.Post("/estimate-key", s.EstimateKey)
			r.Post("/preview", s.Preview)
			r.Post("/render", s.StartRender)
		})
		r.Get("/jobs", s.ListJobs)
		r.Route("/jobs/{job_id}", func(r chi.Router) {
			r.Get("/", s.JobStatus)
			r.Post("/cancel", s.CancelJob)
			r.Get("/download", s.Download)
		})
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return r
}
