// Package api exposes the reconciliation pipeline over HTTP.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/reconlab/wba-recon/internal/api/handlers"
	"github.com/reconlab/wba-recon/internal/api/middleware"
	"github.com/reconlab/wba-recon/internal/application/reconcile"
	"github.com/reconlab/wba-recon/internal/infrastructure/config"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
	Matching       config.MatchingConfig
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	def := config.Default()
	return Config{
		Port:           def.Server.Port,
		AllowedOrigins: def.Server.AllowedOrigins,
		Matching:       def.Matching,
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
	svc        *reconcile.Service
}

// NewServer creates a new API server.
func NewServer(cfg Config, svc *reconcile.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if svc == nil {
		svc = reconcile.NewService(logger)
	}

	s := &Server{
		config: cfg,
		router: chi.NewRouter(),
		logger: logger,
		svc:    svc,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	corsConfig := middleware.CORSConfig{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}
	s.router.Use(middleware.CORS(corsConfig))
	s.router.Use(middleware.Logging(s.logger))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler()
	s.router.Get("/health", healthHandler.ServeHTTP)

	s.router.Route("/api", func(r chi.Router) {
		reconcileHandler := handlers.NewReconcileHandler(s.svc, s.config.Matching, s.logger)
		r.Post("/reconcile", reconcileHandler.Run)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: 60 * time.Second,
		// Workbook generation for large ledgers can take a while.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
