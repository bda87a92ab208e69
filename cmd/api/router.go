package main

import (
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/agentengineer/curator/internal/config"
	"github.com/agentengineer/curator/internal/handler"
	"github.com/agentengineer/curator/internal/metrics"
	"github.com/agentengineer/curator/internal/middleware"
)

// routeHandlers groups everything the router mounts.
type routeHandlers struct {
	root       *handler.Handler
	health     *handler.HealthHandler
	newsletter *handler.NewsletterHandler
	verify     *handler.VerifyHandler
	feedback   *handler.FeedbackHandler
	catalog    *handler.CatalogHandler
	metrics    http.Handler
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h routeHandlers,
	limiter middleware.IPLimiter,
	recorder metrics.Recorder,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger, recorder))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      cfg.IsDevelopment(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	}))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	r.Get("/healthz", h.health.Healthz)
	r.Get("/readyz", h.health.Readyz)
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics)
	}
	r.Get("/", h.root.Hello)

	formLimit := func(scope string) func(http.Handler) http.Handler {
		return middleware.RateLimitIP(middleware.RateLimitConfig{
			Logger:        logger,
			Limiter:       limiter,
			Metrics:       recorder,
			Enabled:       cfg.RateLimitFormsEnabled,
			Scope:         scope,
			RatePerMinute: cfg.RateLimitFormsPerMinute,
			Burst:         cfg.RateLimitFormsBurst,

			TrustProxyHeaders: cfg.TrustProxyHeaders,
		})
	}

	r.Get("/verify", h.verify.Verify)

	r.Route("/api", func(r chi.Router) {
		r.Route("/newsletter", func(r chi.Router) {
			r.Get("/", h.newsletter.Info)
			r.With(formLimit("newsletter")).Post("/", h.newsletter.Subscribe)
			r.Get("/verify", h.verify.Verify)
		})

		r.Route("/feedback", func(r chi.Router) {
			r.Get("/", h.feedback.List)
			r.With(formLimit("feedback")).Post("/", h.feedback.Submit)
		})

		r.Get("/creators", h.catalog.ListCreators)
		r.Get("/creators/{slug}", h.catalog.GetCreator)
		r.Get("/offerings", h.catalog.ListOfferings)
		r.Get("/content", h.catalog.ListContent)
		r.Get("/content/{id}", h.catalog.GetContent)
	})

	r.NotFound(h.root.NotFound)
	r.MethodNotAllowed(h.root.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

// redactURL drops the password from a connection URL.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

// sanitizeError replaces any secret URL in err's message with its redacted form.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
