package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/skyfpv/propwash/internal/config"
	"github.com/skyfpv/propwash/internal/crawler"
	"github.com/skyfpv/propwash/internal/pipeline"
	"github.com/skyfpv/propwash/internal/storage/sqlite"
	"github.com/skyfpv/propwash/pkg/logger"
)

// Router is the API router
type Router struct {
	handler    *Handler
	middleware *Middleware
	config     *config.Config
	logger     *logger.Logger
}

// NewRouter creates a new API router
func NewRouter(p *pipeline.Pipeline, c *crawler.Crawler, history *sqlite.AnalysisStorage, cfg *config.Config, log *logger.Logger) *Router {
	return &Router{
		handler:    NewHandler(p, c, history, cfg, log),
		middleware: NewMiddleware(log),
		config:     cfg,
		logger:     log.Named("api-router"),
	}
}

// Routes returns the API routes
func (r *Router) Routes() http.Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(r.middleware.RequestID)
	router.Use(r.middleware.Logger)
	router.Use(r.middleware.Recoverer)
	router.Use(r.middleware.CORS(r.config.Server.CORSAllowedOrigins))

	// API routes
	router.Route("/api/v1", func(router chi.Router) {
		// Analysis routes
		router.Post("/analyze", r.handler.AnalyzeVideo)
		router.Get("/metadata", r.handler.GetVideoMetadata)
		router.Get("/analyses", r.handler.GetRecentAnalyses)

		// Crawler routes
		router.Post("/crawler/trigger", r.handler.TriggerCrawler)

		// Service status
		router.Get("/status", r.handler.GetStatus)
		router.Get("/health", r.handler.GetHealth)
	})

	return router
}
