// Package api provides the HTTP API server and handlers for PromptHub.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/prompthub/prompthub-server/internal/auth"
	"github.com/prompthub/prompthub-server/internal/http/response"
	"github.com/prompthub/prompthub-server/internal/metrics"
	"github.com/prompthub/prompthub-server/internal/ratelimit"
	"github.com/prompthub/prompthub-server/internal/store"
)

// Version is reported in the OpenAPI document.
const Version = "1.0.0"

// Options configures the HTTP surface.
type Options struct {
	Name            string
	CORSOrigins     []string
	AnalyzerEnabled bool
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           store.PromptStore
	services        *Services
	tokens          *auth.TokenService
	metrics         *metrics.Metrics
	limiter         *ratelimit.KeyedRateLimiter
	analyzerEnabled bool
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// metrics and limiter may be nil.
func NewServer(
	st store.PromptStore,
	services *Services,
	tokens *auth.TokenService,
	m *metrics.Metrics,
	limiter *ratelimit.KeyedRateLimiter,
	opts Options,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Name == "" {
		opts.Name = "PromptHub API"
	}

	s := &Server{
		store:           st,
		services:        services,
		tokens:          tokens,
		metrics:         m,
		limiter:         limiter,
		analyzerEnabled: opts.AnalyzerEnabled,
		router:          chi.NewRouter(),
		logger:          logger,
	}

	s.setupMiddleware(opts)

	humaConfig := huma.DefaultConfig(opts.Name, Version)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, for tests and documentation tooling.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	if s.metrics != nil {
		s.router.Use(s.metrics.Middleware)
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if s.limiter != nil {
		s.router.Use(RateLimitMiddleware(s.limiter, s.logger))
	}
	if s.tokens != nil {
		s.router.Use(authMiddleware(s.tokens))
	}

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "route not found", s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, s.logger)
	})
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}

	s.registerHealthRoutes()
	s.registerPromptRoutes()
	s.registerTagRoutes()
	s.registerAnalyzeRoutes()
}
