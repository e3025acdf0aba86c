// Package server provides the module introspection HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"github.com/david50407/obs-studio/internal/config"
	"github.com/david50407/obs-studio/internal/events"
	"github.com/david50407/obs-studio/internal/middleware"
	"github.com/david50407/obs-studio/internal/services"
)

// Dependencies are the services the API serves. History is optional.
type Dependencies struct {
	Modules services.ModuleService
	History services.HistoryService
	Events  *events.Bus
	RunID   string
}

// ResolveDependencies looks the API's services up in reg. The module
// service must be present; history is used only when registered.
func ResolveDependencies(reg *services.Registry, bus *events.Bus, runID string) (Dependencies, error) {
	modules, err := services.Lookup[services.ModuleService](reg, services.ModuleServiceName)
	if err != nil {
		return Dependencies{}, fmt.Errorf("resolving module service: %w", err)
	}

	deps := Dependencies{Modules: modules, Events: bus, RunID: runID}
	history, err := services.Lookup[services.HistoryService](reg, services.HistoryServiceName)
	switch {
	case err == nil:
		deps.History = history
	case !errors.Is(err, services.ErrServiceNotFound):
		return Dependencies{}, fmt.Errorf("resolving history service: %w", err)
	}
	return deps, nil
}

// Server is the HTTP front of a running module host
type Server struct {
	config config.ServerConfig
	deps   Dependencies
	logger hclog.Logger

	engine *gin.Engine
	http   *http.Server
}

// New builds the router; call Start to listen
func New(cfg config.ServerConfig, deps Dependencies, logger hclog.Logger) (*Server, error) {
	if deps.Modules == nil {
		return nil, fmt.Errorf("module service is required")
	}
	if deps.Events == nil {
		deps.Events = events.GetGlobalEventBus()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	s := &Server{
		config: cfg,
		deps:   deps,
		logger: logger.Named("server"),
	}

	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), middleware.RequestLogger(logger), middleware.ErrorLogger(logger))
	setupRoutes(s.engine, deps, logger)

	s.http = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:      s.engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s, nil
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.http.Addr
}

// Start listens in the background. Listen errors after startup are logged.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}

	s.logger.Info("api server listening", "addr", ln.Addr().String())
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server stopped", "error", err)
		}
	}()
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("api server stopped")
	return nil
}
