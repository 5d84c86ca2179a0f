// Package api assembles the HTTP server: the Echo instance, process-wide
// middleware, static asset routes and the v2 API controller.
package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	v2 "github.com/pneumoscan/pneumoscan-go/internal/api/v2"
	"github.com/pneumoscan/pneumoscan-go/internal/conf"
	"github.com/pneumoscan/pneumoscan-go/internal/datastore"
	"github.com/pneumoscan/pneumoscan-go/internal/inference"
	"github.com/pneumoscan/pneumoscan-go/internal/logging"
	"github.com/pneumoscan/pneumoscan-go/internal/observability"
)

// Server is the main HTTP server for PneumoScan-Go.
// It manages the Echo framework instance, middleware, and all HTTP routes.
type Server struct {
	// Core components
	echo     *echo.Echo
	settings *conf.Settings
	logger   *log.Logger
	slogger  *slog.Logger

	// Dependencies
	dataStore datastore.Interface
	provider  inference.Provider
	metrics   *observability.Metrics

	// API controller
	apiController *v2.Controller

	startTime time.Time
}

// ServerOption is a functional option for configuring the Server.
type ServerOption func(*Server)

// WithLogger sets the standard logger for the server.
func WithLogger(logger *log.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithDataStore sets the datastore for the server.
func WithDataStore(ds datastore.Interface) ServerOption {
	return func(s *Server) {
		s.dataStore = ds
	}
}

// WithProvider sets the inference result provider for the server.
func WithProvider(p inference.Provider) ServerOption {
	return func(s *Server) {
		s.provider = p
	}
}

// WithMetrics sets the metrics instance for the server.
func WithMetrics(m *observability.Metrics) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// New creates a new HTTP server with all routes registered.
func New(settings *conf.Settings, opts ...ServerOption) (*Server, error) {
	s := &Server{
		settings:  settings,
		startTime: time.Now(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.slogger == nil {
		s.slogger = logging.ForService("httpserver")
	}
	if s.dataStore == nil {
		return nil, fmt.Errorf("server requires a datastore")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	s.echo = e

	// Process-wide middleware: every response carries the cross-origin
	// isolation headers, including errors and static assets.
	e.Use(echomw.Recover())
	e.Use(CrossOriginIsolation())

	// Worker script asset with permissive CORS
	e.GET("/worker.js", s.handleWorkerScript)

	// Prometheus metrics
	if s.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	// Initialize the v2 API controller
	controllerOpts := []v2.Option{}
	if s.provider != nil {
		controllerOpts = append(controllerOpts, v2.WithProvider(s.provider))
	}
	apiController, err := v2.New(e, s.dataStore, settings, s.logger, s.metrics, controllerOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize API controller: %w", err)
	}
	s.apiController = apiController

	return s, nil
}

// handleWorkerScript serves the client inference worker script with a
// permissive CORS header so the CDN-hosted demo page can fetch it.
func (s *Server) handleWorkerScript(ctx echo.Context) error {
	scriptPath := s.settings.WebServer.WorkerScript

	data, err := os.ReadFile(scriptPath)
	if err != nil {
		if os.IsNotExist(err) {
			if s.slogger != nil {
				s.slogger.Warn("Worker script asset missing", "path", scriptPath)
			}
			return ctx.String(http.StatusNotFound, "worker script not found")
		}
		return ctx.String(http.StatusInternalServerError, "failed to read worker script")
	}

	ctx.Response().Header().Set(echo.HeaderAccessControlAllowOrigin, "*")
	return ctx.Blob(http.StatusOK, "application/javascript", data)
}

// Echo exposes the underlying Echo instance, primarily for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start runs the HTTP server until the context is canceled, then shuts it
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := ":" + s.settings.WebServer.Port

	errChan := make(chan error, 1)
	go func() {
		if s.slogger != nil {
			s.slogger.Info("HTTP server listening", "addr", addr)
		}
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.apiController.Shutdown()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	if s.slogger != nil {
		s.slogger.Info("HTTP server stopped")
	}
	return nil
}
