// Package server assembles the HTTP server: routes, middleware, health and
// metrics endpoints, and graceful shutdown.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/birdkeep/birdkeep/internal/api"
	"github.com/birdkeep/birdkeep/internal/metrics"
	"github.com/birdkeep/birdkeep/internal/version"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Server is the birdkeep HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
}

// Options configures a Server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// RateLimit is the sustained requests-per-second budget across all
	// callers; RateBurst is the burst allowance. Zero disables limiting.
	RateLimit float64
	RateBurst int
}

// New creates a Server with the API handler mounted under /api/v1.
func New(opts Options, handler *api.Handler, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 15 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 15 * time.Second
	}
	if opts.IdleTimeout == 0 {
		opts.IdleTimeout = 60 * time.Second
	}

	var root http.Handler = mux
	if opts.RateLimit > 0 {
		root = rateLimitMiddleware(rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst), root)
	}
	root = metrics.Middleware(root)
	root = requestLogMiddleware(logger, root)
	root = requestIDMiddleware(root)

	s := &Server{
		httpServer: &http.Server{
			Addr:         opts.Addr,
			Handler:      root,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
			IdleTimeout:  opts.IdleTimeout,
		},
		logger: logger,
		mux:    mux,
	}

	s.registerCoreRoutes()
	handler.RegisterRoutes(mux)

	return s
}

// registerCoreRoutes sets up routes that are always available.
func (s *Server) registerCoreRoutes() {
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.Handler())
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Birdkeep-Version", version.Short())
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "birdkeep",
		"version": version.Map(),
	})
}
