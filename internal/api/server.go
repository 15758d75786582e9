package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/mdweave/internal/config"
	"github.com/dgallion1/mdweave/internal/history"
	"github.com/dgallion1/mdweave/internal/pipeline"
)

// Server is the HTTP API server for mdweave.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.log))

	// Public endpoints.
	r.Get("/healthz", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(s.cfg.MdweaveAPIKey, s.log))

		r.Post("/v1/convert", s.handleConvert)

		r.Post("/v1/jobs", s.handleSubmitJob)
		r.Post("/v1/jobs/batch", s.handleBatchJobs)
		r.Get("/v1/jobs/{jobID}", s.handleJobStatus)

		r.Get("/v1/conversions", s.handleListConversions)
		r.Get("/v1/conversions/{id}", s.handleGetConversion)
		r.Get("/v1/conversions/{id}/markdown", s.handleConversionMarkdown)
		r.Get("/v1/conversions/{id}/preview", s.handleConversionPreview)

		r.Get("/v1/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// history returns the store, or nil when the server runs without one.
func (s *Server) history() *history.Store {
	return s.orchestrator.History()
}
