// Package http provides the HTTP server: route registration, health and
// readiness endpoints and the middleware stack in front of the REST
// dispatch layer.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	authHTTP "github.com/allisson/docrest/internal/auth/http"
	"github.com/allisson/docrest/internal/metrics"
	"github.com/allisson/docrest/internal/rest"
)

// Server represents the HTTP server.
type Server struct {
	db     *sql.DB
	router *gin.Engine
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new HTTP server. SetupRouter must run before Start.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// RouterConfig carries the collaborators and settings SetupRouter wires into
// the API surface.
type RouterConfig struct {
	// Resolver is the authentication chain middleware; it runs on every
	// /api route ahead of dispatch.
	Resolver *authHTTP.Resolver

	// RestHandler dispatches parsed routes to document operations.
	RestHandler *rest.Handler

	// MeterProvider enables HTTP metrics collection when set.
	MeterProvider metric.MeterProvider
	// MetricsNamespace prefixes metric names.
	MetricsNamespace string

	// CORSEnabled indicates whether CORS headers are applied.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins.
	CORSAllowOrigins string

	// RateLimitEnabled turns on per-identity rate limiting on /api routes.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the sustained request rate per identity.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst allowance per identity.
	RateLimitBurst int
}

// SetupRouter builds the gin router: recovery, request ids, logging, CORS
// and metrics middleware, health endpoints, and the authenticated /api
// surface.
func (s *Server) SetupRouter(cfg RouterConfig) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MeterProvider, cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	api := router.Group("/api")
	api.Use(cfg.Resolver.Middleware())
	if cfg.RateLimitEnabled {
		api.Use(authHTTP.RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}
	api.Any("/*path", cfg.RestHandler.Dispatch)

	s.router = router
}

// Router returns the configured gin router.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic: the
// database must be reachable.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}

	ready := true
	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(pingCtx); err != nil {
			components["database"] = "error"
			ready = false
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}
