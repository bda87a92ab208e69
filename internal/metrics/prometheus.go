package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder exposes metrics through a private Prometheus registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	subscriptions     *prometheus.CounterVec
	verifications     *prometheus.CounterVec
	emailSends        *prometheus.CounterVec
	emailSendDuration *prometheus.HistogramVec
	feedbackSubmitted *prometheus.CounterVec
	catalogCache      *prometheus.CounterVec
	rateLimited       *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// NewPrometheus registers all collectors, plus Go runtime and process
// collectors, on a fresh registry.
func NewPrometheus() *PrometheusRecorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &PrometheusRecorder{
		registry: reg,
		subscriptions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "curator_newsletter_subscriptions_total",
			Help: "Newsletter signup requests by result status",
		}, []string{"status"}),
		verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "curator_newsletter_verifications_total",
			Help: "Verification link redemptions by outcome",
		}, []string{"outcome"}),
		emailSends: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "curator_email_sends_total",
			Help: "Outbound email attempts by provider and status",
		}, []string{"provider", "status"}),
		emailSendDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "curator_email_send_duration_seconds",
			Help:    "Outbound email send duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		}, []string{"provider"}),
		feedbackSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "curator_feedback_submissions_total",
			Help: "Feedback submissions by result status",
		}, []string{"status"}),
		catalogCache: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "curator_catalog_cache_requests_total",
			Help: "Catalog cache lookups by result",
		}, []string{"result"}),
		rateLimited: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "curator_rate_limited_requests_total",
			Help: "Requests rejected by the rate limiter, by scope",
		}, []string{"scope"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "curator_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "curator_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
	}
}

// Handler serves the registry in Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (p *PrometheusRecorder) Registry() *prometheus.Registry {
	return p.registry
}

func (p *PrometheusRecorder) IncSubscription(status string) {
	p.subscriptions.WithLabelValues(status).Inc()
}

func (p *PrometheusRecorder) IncVerification(outcome string) {
	p.verifications.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) ObserveEmailSend(provider, status string, duration time.Duration) {
	p.emailSends.WithLabelValues(provider, status).Inc()
	p.emailSendDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func (p *PrometheusRecorder) IncFeedbackSubmitted(status string) {
	p.feedbackSubmitted.WithLabelValues(status).Inc()
}

func (p *PrometheusRecorder) IncCatalogCacheHit() {
	p.catalogCache.WithLabelValues("hit").Inc()
}

func (p *PrometheusRecorder) IncCatalogCacheMiss() {
	p.catalogCache.WithLabelValues("miss").Inc()
}

func (p *PrometheusRecorder) IncRateLimited(scope string) {
	p.rateLimited.WithLabelValues(scope).Inc()
}

func (p *PrometheusRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
