package server

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/sharewatch/sharewatch/internal/config"
	"github.com/sharewatch/sharewatch/internal/events"
	"github.com/sharewatch/sharewatch/internal/highlight"
	"github.com/sharewatch/sharewatch/internal/logger"
	"github.com/sharewatch/sharewatch/internal/privacy"
	"github.com/sharewatch/sharewatch/internal/security"
	"github.com/sharewatch/sharewatch/internal/templates"
	"github.com/sharewatch/sharewatch/internal/web"
	"go.uber.org/zap"
)

// Server exposes the scanner, renderer and template engine over HTTP
type Server struct {
	config      *config.Config
	logger      *logger.Logger
	scanner     *privacy.Scanner
	renderer    *highlight.Renderer
	substitutor *templates.Substitutor
	store       *templates.Store // nil when the store is disabled
	limiter     *security.RateLimiter
	router      *mux.Router
	server      *http.Server
	hub         *events.Hub
	started     time.Time

	totalRequests   int64
	totalDetections int64
}

// New creates a new server instance
func New(cfg *config.Config, log *logger.Logger) (*Server, error) {
	scanner, err := privacy.New(cfg.Scanner, log.WithComponent("privacy"))
	if err != nil {
		return nil, fmt.Errorf("failed to create privacy scanner: %w", err)
	}

	renderer, err := highlight.New(cfg.Highlight)
	if err != nil {
		return nil, fmt.Errorf("failed to create highlight renderer: %w", err)
	}

	var store *templates.Store
	if cfg.Templates.Store.Enabled {
		store, err = templates.NewStore(cfg.Templates.Store, log.WithComponent("templates").Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create template store: %w", err)
		}
	}

	hub := events.NewHub(cfg.WebSocket, log.WithComponent("events").Logger)

	router := mux.NewRouter()

	server := &Server{
		config:      cfg,
		logger:      log.WithComponent("server"),
		scanner:     scanner,
		renderer:    renderer,
		substitutor: templates.NewSubstitutor(),
		store:       store,
		limiter:     security.NewRateLimiter(cfg.RateLimit),
		router:      router,
		hub:         hub,
		started:     time.Now(),
	}

	server.setupRoutes()

	server.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return server, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Info endpoint
	s.router.HandleFunc("/info", s.handleInfo).Methods("GET")

	// Dashboard endpoint - embedded HTML
	s.router.HandleFunc("/", web.ServeDashboard).Methods("GET")
	s.router.HandleFunc("/dashboard", web.ServeDashboard).Methods("GET")

	// WebSocket endpoint for dashboard
	if s.config.WebSocket.Enabled {
		s.router.HandleFunc(s.config.WebSocket.Path, s.handleWebSocket).Methods("GET")
	}

	// API endpoints
	api := s.router.PathPrefix("/v1").Subrouter()
	api.Use(s.loggingMiddleware)
	api.Use(s.rateLimitMiddleware)

	api.HandleFunc("/scan", s.handleScan).Methods("POST")
	api.HandleFunc("/highlight", s.handleHighlight).Methods("POST")
	api.HandleFunc("/templates/render", s.handleTemplateRender).Methods("POST")
	api.HandleFunc("/templates/variables", s.handleTemplateVariables).Methods("POST")

	// Named template store, only when backed by Redis
	if s.store != nil {
		api.HandleFunc("/templates", s.handleTemplateList).Methods("GET")
		api.HandleFunc("/templates/{name}/render", s.handleTemplateRenderNamed).Methods("POST")
		api.HandleFunc("/templates/{name}", s.handleTemplateSave).Methods("PUT")
		api.HandleFunc("/templates/{name}", s.handleTemplateGet).Methods("GET")
		api.HandleFunc("/templates/{name}", s.handleTemplateDelete).Methods("DELETE")
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting sharewatch server",
		zap.Int("port", s.config.Server.Port),
		zap.Strings("enabled_rules", s.scanner.EnabledRules()),
		zap.Bool("template_store", s.store != nil),
	)

	// Start WebSocket hub in a separate goroutine
	go s.hub.Run()

	s.limiter.StartCleanupRoutine()

	return s.server.ListenAndServe()
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping sharewatch server")
	if s.store != nil {
		defer s.store.Close()
	}
	return s.server.Shutdown(ctx)
}

// ApplyConfig applies a reloaded configuration to the running scanner
func (s *Server) ApplyConfig(cfg *config.Config) {
	if err := s.scanner.Reconfigure(cfg.Scanner); err != nil {
		s.logger.Error("Failed to apply reloaded scanner config", zap.Error(err))
		return
	}
	s.logger.Info("Configuration reloaded",
		zap.Strings("enabled_rules", s.scanner.EnabledRules()))
}

// Handler returns the root HTTP handler, used by tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// handleWebSocket handles WebSocket connections for the dashboard
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.HandleWebSocket(w, r)
}

// Hub returns the WebSocket hub for broadcasting events
func (s *Server) Hub() *events.Hub {
	return s.hub
}

func (s *Server) countRequest() {
	atomic.AddInt64(&s.totalRequests, 1)
}

func (s *Server) countDetections(n int) {
	atomic.AddInt64(&s.totalDetections, int64(n))
}
