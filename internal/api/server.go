// Package api serves reading plans, comparisons, historical contexts and date
// conversions over HTTP, plus a WebSocket feed that streams a comparison one
// difference at a time.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/FocuswithJustin/chronoplan/core/compare"
	"github.com/FocuswithJustin/chronoplan/core/datesys"
	"github.com/FocuswithJustin/chronoplan/core/history"
	"github.com/FocuswithJustin/chronoplan/core/parallels"
	"github.com/FocuswithJustin/chronoplan/core/plan"
	"github.com/FocuswithJustin/chronoplan/core/store"
	"github.com/FocuswithJustin/chronoplan/internal/cache"
	"github.com/FocuswithJustin/chronoplan/internal/logging"
	"github.com/FocuswithJustin/chronoplan/internal/server"
)

// Config holds server configuration.
type Config struct {
	Port              int
	Version           string
	AllowedOrigins    []string      // CORS and WebSocket origins (empty = allow all)
	CacheTTL          time.Duration // plan listing and comparison cache (0 = disabled)
	DatingSystem      plan.DatingSystem
	RateLimitRequests int // Requests per minute (0 = disabled)
	RateLimitBurst    int
}

// Server holds the dependencies shared by every handler.
type Server struct {
	cfg        Config
	store      store.Store
	history    *history.Lookup
	converter  *datesys.Converter
	reconciler *parallels.Reconciler
	cors       server.CORSConfig
	limiter    *RateLimiter
	started    time.Time

	plans       *cache.TTLCache[string, []*plan.ReadingPlan]
	comparisons *cache.TTLCache[string, compare.Comparison]
}

// New creates a Server over st using the embedded lookup tables.
func New(cfg Config, st store.Store) *Server {
	if !cfg.DatingSystem.Valid() {
		cfg.DatingSystem = plan.Conservative
	}
	conv := datesys.New(nil)
	s := &Server{
		cfg:         cfg,
		store:       st,
		history:     history.New(nil, conv),
		converter:   conv,
		reconciler:  parallels.New(nil),
		cors:        server.CORSConfig{AllowedOrigins: cfg.AllowedOrigins},
		started:     time.Now(),
		plans:       cache.New[string, []*plan.ReadingPlan](cfg.CacheTTL),
		comparisons: cache.New[string, compare.Comparison](cfg.CacheTTL),
	}
	if cfg.RateLimitRequests > 0 {
		s.limiter = NewRateLimiter(RateLimiterConfig{
			RequestsPerMinute: cfg.RateLimitRequests,
			BurstSize:         cfg.RateLimitBurst,
		})
	}
	return s
}

// Close releases background resources. The store is owned by the caller.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Close()
	}
}

// Invalidate drops cached listings and comparisons.
func (s *Server) Invalidate() {
	s.plans.Invalidate()
	s.comparisons.Invalidate()
}

// routes registers every endpoint.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /plans", s.handlePlans)
	mux.HandleFunc("GET /plans/{provider}", s.handlePlan)
	mux.HandleFunc("GET /plans/{provider}/stats", s.handlePlanStats)
	mux.HandleFunc("GET /plans/{provider}/validate", s.handlePlanValidate)
	mux.HandleFunc("GET /compare", s.handleCompare)
	mux.HandleFunc("GET /compare/all", s.handleCompareAll)
	mux.HandleFunc("GET /context", s.handleContext)
	mux.HandleFunc("GET /convert", s.handleConvert)
	mux.HandleFunc("GET /parallels/{provider}", s.handleParallels)
	mux.HandleFunc("GET /ws/compare", s.handleCompareStream)
	mux.HandleFunc("/", s.handleNotFound)

	return mux
}

// Handler returns the routed mux wrapped in the middleware chain, outermost
// first: request logging, CORS, rate limiting, security headers, timing.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.routes()
	handler = server.TimingMiddleware(handler)
	handler = server.SecurityHeadersWithCSP(server.APICSPConfig(), handler)
	if s.limiter != nil {
		handler = s.limiter.Middleware(handler)
	}
	handler = server.CORSMiddlewareWithConfig(s.cors, handler)
	return logging.CombinedMiddleware(handler)
}

// Start serves the API on cfg.Port until ctx is canceled.
func Start(ctx context.Context, cfg Config, st store.Store) error {
	s := New(cfg, st)
	defer s.Close()

	if s.cors.Permissive() {
		logging.SecurityEvent(ctx, "cors_configured", "api",
			"mode", "permissive",
			"note", "allowing all origins (*)")
	} else {
		logging.SecurityEvent(ctx, "cors_configured", "api",
			"mode", "restricted",
			"allowed_origins_count", len(cfg.AllowedOrigins))
	}
	if s.limiter != nil {
		logging.Info("rate limiting enabled",
			"requests_per_minute", cfg.RateLimitRequests,
			"burst_size", cfg.RateLimitBurst)
	}
	logging.ServerStartup("rest_api", "http", cfg.Port,
		"websocket_protocol", "ws",
		"cache_ttl", cfg.CacheTTL.String(),
		"dating_system", string(cfg.DatingSystem))

	return server.ListenAndServe(ctx, server.New(server.Addr(cfg.Port), s.Handler()))
}
