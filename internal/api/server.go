// Package api provides the HTTP API server and handlers for Inkwell.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/inkwellapp/inkwell/internal/editor"
	"github.com/inkwellapp/inkwell/internal/logger"
	"github.com/inkwellapp/inkwell/internal/ratelimit"
	"github.com/inkwellapp/inkwell/internal/render"
	"github.com/inkwellapp/inkwell/internal/search"
	"github.com/inkwellapp/inkwell/internal/store"
	"github.com/inkwellapp/inkwell/internal/validation"
)

// SearchIndex is the full-text index the API queries and health-checks.
type SearchIndex interface {
	Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error)
	DocumentCount() (uint64, error)
}

// Services groups the components the API server calls into.
type Services struct {
	Store    *store.Store
	Session  *editor.Session
	Renderer *render.Renderer
	Views    *render.ViewCache
	Search   SearchIndex // nil when full-text search is disabled
}

// Options configures the HTTP layer.
type Options struct {
	Version     string
	CORSOrigins []string

	// ImportLimiter and RenderLimiter throttle the import and render
	// endpoints per client IP. Defaults are created when nil.
	ImportLimiter *ratelimit.KeyedRateLimiter
	RenderLimiter *ratelimit.KeyedRateLimiter

	// Location formats list timestamps; defaults to time.Local.
	Location *time.Location
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store     *store.Store
	session   *editor.Session
	renderer  *render.Renderer
	views     *render.ViewCache
	search    SearchIndex
	validator *validation.Validator
	loc       *time.Location

	importLimiter *ratelimit.KeyedRateLimiter
	renderLimiter *ratelimit.KeyedRateLimiter

	router *chi.Mux
	api    huma.API
	logger *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, opts Options, log *slog.Logger) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.ImportLimiter == nil {
		opts.ImportLimiter = ratelimit.PerInterval(20, time.Minute, 5)
	}
	if opts.RenderLimiter == nil {
		opts.RenderLimiter = ratelimit.PerInterval(120, time.Minute, 30)
	}
	if services.Views == nil {
		services.Views = render.NewViewCache(render.DefaultViewTTL)
	}
	if services.Renderer == nil {
		services.Renderer = render.New(log)
	}

	s := &Server{
		store:         services.Store,
		session:       services.Session,
		renderer:      services.Renderer,
		views:         services.Views,
		search:        services.Search,
		validator:     validation.New(),
		loc:           opts.Location,
		importLimiter: opts.ImportLimiter,
		renderLimiter: opts.RenderLimiter,
		router:        chi.NewRouter(),
		logger:        logger.OrDiscard(log),
	}

	s.setupMiddleware(opts.CORSOrigins)

	humaConfig := huma.DefaultConfig("Inkwell API", opts.Version)
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, mainly for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// Close stops the background work of the rate limiters.
func (s *Server) Close() {
	s.importLimiter.Stop()
	s.renderLimiter.Stop()
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(origins []string) {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(clientIPMiddleware)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerPostRoutes()
	s.registerEditorRoutes()
	s.registerTransferRoutes()
	s.registerViewRoutes()
	s.registerSearchRoutes()
	s.registerRenderRoutes()
}
