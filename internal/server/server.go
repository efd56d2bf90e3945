// Package server wires the chi router, middleware chain, and HTTP lifecycle.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/handler"
	"github.com/askdb/askdb/internal/openapi"
	"github.com/askdb/askdb/internal/server/middleware"
	"github.com/askdb/askdb/internal/service"
	"github.com/askdb/askdb/internal/stats"
	"github.com/askdb/askdb/internal/store"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	RateLimit       int // query requests per IP per minute, 0 disables
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            8000,
		ShutdownTimeout: 10 * time.Second,
		CORSOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		RateLimit:       60,
	}
}

// Server is the top-level HTTP server. It owns the chi router, the SQLite
// store, the query service, and the stats collector.
type Server struct {
	cfg        Config
	settings   config.Config
	router     chi.Router
	store      *store.Store
	querySvc   *service.QueryService
	stats      *stats.Collector
	version    string
	httpServer *http.Server
	logger     *slog.Logger

	specOnce sync.Once
	specJSON []byte
	specErr  error
}

// New creates a new Server, wires up all routes and middleware, and returns
// it ready to listen. Call ListenAndServe to start accepting connections.
func New(cfg Config, settings config.Config, st *store.Store, querySvc *service.QueryService, collector *stats.Collector, version string, logger *slog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		settings: settings,
		store:    st,
		querySvc: querySvc,
		stats:    collector,
		version:  version,
		logger:   logger,
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// --- Global middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chimw.Compress(5))

	metaHandler := handler.NewMetaHandler(s.settings, s.store, s.querySvc, s.stats, s.version)
	queryHandler := handler.NewQueryHandler(s.querySvc, s.stats)

	// --- Health checks ---
	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", metaHandler.Readiness)

	// --- OpenAPI spec ---
	r.Get("/openapi.json", s.handleOpenAPI)

	// --- Service identity ---
	r.Get("/", metaHandler.Root)

	// --- API routes ---
	r.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.RateLimit(s.cfg.RateLimit)).Post("/query", queryHandler.Query)
		r.Get("/config", metaHandler.Config)
		r.Get("/debug/env", metaHandler.DebugEnv)
		r.Get("/stats", metaHandler.Stats)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":404,"message":"Not found"}}`))
	})

	s.router = r
}

// handleHealthz is a liveness probe. Returns 200 if the process is running.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// handleOpenAPI serves the generated OpenAPI 3 document. The document is
// built once and cached for the life of the process.
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	s.specOnce.Do(func() {
		doc := openapi.Document(s.version)
		s.specJSON, s.specErr = json.MarshalIndent(doc, "", "  ")
	})
	if s.specErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":500,"message":"Failed to render OpenAPI document"}}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(s.specJSON)
}

// ListenAndServe starts the HTTP server and blocks until a SIGINT or SIGTERM
// is received. It then performs a graceful shutdown, draining in-flight
// requests before closing the database.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Listen for shutdown signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server in background goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server listen: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	if err := s.store.Close(); err != nil {
		s.logger.Warn("closing database", "error", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Router returns the underlying chi router, useful for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler, delegating to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
