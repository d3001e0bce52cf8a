package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"feecalc/internal/cache"
	applog "feecalc/internal/log"
	"feecalc/internal/middleware/ratelimit"
	"feecalc/internal/middleware/security"
	"feecalc/internal/middleware/trace"
	"feecalc/internal/session"
	appweb "feecalc/web"
)

// Config holds server settings.
type Config struct {
	Addr               string
	RateLimitPerMinute int
	CleanupInterval    time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Addr:               ":8081",
		RateLimitPerMinute: 120,
		CleanupInterval:    5 * time.Minute,
	}
}

// Server serves the fee calculator page and its form actions.
type Server struct {
	http.Server
	templates *template.Template
	pages     *session.Store

	logger           *applog.Logger
	structuredLogger *applog.StructuredLogger
	cacheManager     *cache.Manager
	rateLimiter      *ratelimit.Limiter
	traceMiddleware  *trace.Middleware
	appMetrics       *appMetrics

	shutdownOnce sync.Once
}

type appMetrics struct {
	uptime             time.Time
	pagesOpened        int64
	calculations       int64
	validationFailures int64
}

// NewServer configures routes and templates, returning a ready-to-run server.
// Expired pages are swept every cfg.CleanupInterval until Shutdown.
func NewServer(cfg Config, pages *session.Store, logger *applog.Logger) *Server {
	def := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = def.CleanupInterval
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	r := chi.NewRouter()
	s := &Server{
		Server: http.Server{
			Addr:              cfg.Addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		pages:            pages,
		logger:           logger,
		structuredLogger: applog.NewStructuredLogger(logger),
		cacheManager:     cache.NewManager(),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitPerMinute,
			CleanupInterval:   cfg.CleanupInterval,
		}),
		traceMiddleware: trace.NewMiddleware(logger, extractClientIP),
		appMetrics:      &appMetrics{uptime: time.Now()},
	}

	s.cacheManager.Register(pages.Cleaner())
	s.cacheManager.StartCleanup(cfg.CleanupInterval)

	// Parse embedded templates at startup.
	t, err := parseTemplates()
	if err != nil {
		logger.Warn("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	r.Use(middleware.Recoverer)
	r.Use(applog.Middleware(logger))
	r.Use(s.traceMiddleware.Middleware)
	r.Use(headers.Middleware)

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.With(security.StaticAssetMiddleware(3600)).Handle("/static/*", static)
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("Not found").Write(w)
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", s.handleMetrics)

	r.Group(func(r chi.Router) {
		r.Use(security.NoStore)
		r.Use(s.rateLimiter.Middleware(extractClientIP, s.handleRateLimited))

		r.Get("/", s.handleIndex)
		r.Post("/fields", s.handleAddField)
		r.Post("/fields/{id}/remove", s.handleRemoveField)
		r.Post("/calculate", s.handleCalculate)
		r.Post("/reset", s.handleReset)
		r.Post("/template", s.handleApplyTemplate)
	})

	return s
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"fieldName": func(id, part string) string {
			return "fields[" + id + "]." + part
		},
	}).ParseFS(appweb.TemplatesFS, "templates/*.html")
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, extractClientIP(r),
		applog.FieldPath, r.URL.Path)

	ErrorResponse(http.StatusTooManyRequests, "Too many requests. Please try again later.").
		Header("Retry-After", "60").
		Write(w)
}
