// Package server implements the HTTP layer. Handlers are methods on *Server
// and stay thin: validation and serialization only, with all analysis work
// delegated to the injected analyzer.
package server

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mindease/ai-service/internal/analyzer"
	"github.com/mindease/ai-service/internal/metrics"
)

// Config holds the values /health reports and the environment name used by
// the CORS middleware.
type Config struct {
	ServiceName  string
	ModelName    string
	GPUAvailable bool
	Env          string
}

// Server holds all shared handler dependencies.
type Server struct {
	analyzer *analyzer.Analyzer
	healthy  *atomic.Bool
	cfg      Config
	logger   *slog.Logger
}

// NewServer wires the chi router. The returned handler is ready for
// http.ListenAndServe.
func NewServer(a *analyzer.Analyzer, healthy *atomic.Bool, cfg Config, logger *slog.Logger) http.Handler {
	s := &Server{
		analyzer: a,
		healthy:  healthy,
		cfg:      cfg,
		logger:   logger,
	}
	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Post("/analyze", s.handleAnalyze)
	r.Post("/sentiment", s.handleSentiment)
	r.Post("/emotions", s.handleEmotions)
	r.Post("/batch-analyze", s.handleBatchAnalyze)
	r.Post("/psychological-assessment", s.handlePsychologicalAssessment)

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}
