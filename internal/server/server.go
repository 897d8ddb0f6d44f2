// Package server provides the HTTP boundary around the analysis
// engine: request validation, summarization orchestration, response
// serialization, and operational endpoints.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/clearterms/clearterms/internal/analysis"
	"github.com/clearterms/clearterms/internal/cache"
	"github.com/clearterms/clearterms/internal/config"
	"github.com/clearterms/clearterms/internal/events"
	"github.com/clearterms/clearterms/internal/logger"
	"github.com/clearterms/clearterms/internal/summarizer"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Server is the ClearTerms HTTP server
type Server struct {
	config     *config.Config
	logger     *logger.Logger
	analyzer   *analysis.Analyzer
	summarizer *summarizer.HFClient
	cache      *cache.AnalysisCache
	hub        *events.Hub
	router     *mux.Router
	server     *http.Server
	limiter    *clientLimiter
}

// New creates a server wired to a fresh analyzer over the default
// taxonomy. The cache is optional; a Redis connection failure at boot
// is an error only when the cache is enabled.
func New(cfg *config.Config, log *logger.Logger) (*Server, error) {
	analyzer := analysis.New(analysis.DefaultTaxonomy(), cfg.Analysis, log.WithComponent("analysis"))
	hfClient := summarizer.NewHFClient(cfg.Summarizer, log.WithComponent("summarizer"))

	var analysisCache *cache.AnalysisCache
	if cfg.Cache.Enabled {
		var err error
		analysisCache, err = cache.New(cfg.Cache, log.WithComponent("cache").Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create analysis cache: %w", err)
		}
	}

	var hub *events.Hub
	if cfg.Events.Enabled {
		hub = events.NewHub(cfg.Events, log.WithComponent("events").Logger)
	}

	s := &Server{
		config:     cfg,
		logger:     log.WithComponent("server"),
		analyzer:   analyzer,
		summarizer: hfClient,
		cache:      analysisCache,
		hub:        hub,
		router:     mux.NewRouter(),
		limiter:    newClientLimiter(cfg.Server.RateLimit.RequestsPerMin, cfg.Server.RateLimit.Burst),
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/api-status", s.handleAPIStatus).Methods("GET")

	if s.cache != nil {
		s.router.HandleFunc("/cache", s.handleCacheClear).Methods("DELETE")
	}

	if s.hub != nil {
		s.router.HandleFunc(s.config.Events.Path, s.hub.HandleWebSocket).Methods("GET")
	}

	api := s.router.NewRoute().Subrouter()
	api.Use(s.loggingMiddleware)
	api.Use(s.rateLimitMiddleware)
	api.HandleFunc("/summarize", s.handleSummarize).Methods("POST")
	api.HandleFunc("/categories-only", s.handleCategoriesOnly).Methods("POST")
}

// Start starts the HTTP server and the event hub
func (s *Server) Start() error {
	s.logger.Info("Starting ClearTerms server",
		zap.Int("port", s.config.Server.Port),
		zap.Bool("summarizer_configured", s.summarizer.Configured()),
		zap.Bool("cache_enabled", s.cache != nil),
	)

	if s.hub != nil {
		go s.hub.Run()
	}

	return s.server.ListenAndServe()
}

// Stop gracefully stops the HTTP server and its background workers
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping ClearTerms server")

	s.limiter.close()
	if s.hub != nil {
		s.hub.Stop()
	}

	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.logger.Error("Failed to close analysis cache", zap.Error(err))
		}
	}

	return s.server.Shutdown(ctx)
}

// ReloadConfig applies the reloadable subset of a changed configuration.
// Only rate-limit settings take effect live; everything else requires a
// restart.
func (s *Server) ReloadConfig(cfg *config.Config) {
	s.limiter.setLimit(cfg.Server.RateLimit.RequestsPerMin, cfg.Server.RateLimit.Burst)
	s.logger.Info("Configuration reloaded",
		zap.Int("rate_limit_per_min", cfg.Server.RateLimit.RequestsPerMin),
		zap.Int("rate_limit_burst", cfg.Server.RateLimit.Burst),
	)
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.router
}
