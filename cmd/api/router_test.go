package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/agentengineer/curator/internal/cache"
	"github.com/agentengineer/curator/internal/config"
	"github.com/agentengineer/curator/internal/handler"
	"github.com/agentengineer/curator/internal/metrics"
	"github.com/agentengineer/curator/internal/model"
	"github.com/agentengineer/curator/internal/service"
)

type stubNewsletter struct{}

func (stubNewsletter) Subscribe(ctx context.Context, email string) (*service.SubscribeResult, error) {
	return &service.SubscribeResult{Status: model.StatusAlreadySubscribed}, nil
}

func (stubNewsletter) Verify(ctx context.Context, token string) (*service.VerifyResult, error) {
	if token == "" {
		return &service.VerifyResult{Outcome: model.OutcomeMissingToken}, nil
	}
	return &service.VerifyResult{Outcome: model.OutcomeTokenNotFound}, nil
}

type stubFeedback struct{}

func (stubFeedback) Submit(ctx context.Context, input service.SubmitFeedbackInput) (*model.Feedback, error) {
	return nil, service.ErrMissingFields
}

func (stubFeedback) ListVerified(ctx context.Context) ([]*model.Feedback, error) {
	return nil, nil
}

type stubCatalog struct{}

func (stubCatalog) ListCreators(ctx context.Context) ([]*model.Creator, error) { return nil, nil }
func (stubCatalog) GetCreatorProfile(ctx context.Context, slug string) (*model.CreatorProfile, error) {
	return nil, service.ErrCreatorNotFound
}
func (stubCatalog) ListOfferings(ctx context.Context) ([]*model.Offering, error)    { return nil, nil }
func (stubCatalog) ListContent(ctx context.Context) ([]*model.ContentReview, error) { return nil, nil }
func (stubCatalog) GetContent(ctx context.Context, id int64) (*model.ContentReview, error) {
	return nil, errors.New("unexpected")
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	prom := metrics.NewPrometheus()
	h := routeHandlers{
		root:       handler.New("The Agent Engineer", "test"),
		health:     handler.NewHealthHandler(nil, nil),
		newsletter: handler.NewNewsletterHandler(stubNewsletter{}, logger),
		verify:     handler.NewVerifyHandler(stubNewsletter{}, "The Agent Engineer", logger),
		feedback:   handler.NewFeedbackHandler(stubFeedback{}, logger),
		catalog:    handler.NewCatalogHandler(stubCatalog{}, logger),
		metrics:    prom.Handler(),
	}
	return setupRouter(h, cache.NewWithClient(client), prom, cfg, logger)
}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:                  "development",
		MaxRequestBodySize:      1 << 16,
		RateLimitFormsEnabled:   true,
		RateLimitFormsPerMinute: 1,
		RateLimitFormsBurst:     2,
	}
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter(t, testConfig())

	tests := []struct {
		method   string
		path     string
		body     string
		wantCode int
	}{
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/readyz", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/api/newsletter", "", http.StatusOK},
		{http.MethodPost, "/api/newsletter", `{"email":"a@x.io"}`, http.StatusOK},
		{http.MethodGet, "/verify", "", http.StatusBadRequest},
		{http.MethodGet, "/api/newsletter/verify?token=abc", "", http.StatusBadRequest},
		{http.MethodGet, "/api/feedback", "", http.StatusOK},
		{http.MethodPost, "/api/feedback", `{}`, http.StatusBadRequest},
		{http.MethodGet, "/api/creators", "", http.StatusOK},
		{http.MethodGet, "/api/creators/nobody", "", http.StatusNotFound},
		{http.MethodGet, "/api/offerings", "", http.StatusOK},
		{http.MethodGet, "/api/content", "", http.StatusOK},
		{http.MethodGet, "/api/content/abc", "", http.StatusBadRequest},
		{http.MethodGet, "/does-not-exist", "", http.StatusNotFound},
		{http.MethodDelete, "/api/feedback", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.RemoteAddr = "192.0.2.10:1000"
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Error("expected X-Request-ID header")
			}
		})
	}
}

func TestRouter_FormsAreRateLimitedPerScope(t *testing.T) {
	router := newTestRouter(t, testConfig())

	post := func(path, body string) int {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.RemoteAddr = "203.0.113.5:4000"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := post("/api/newsletter", `{"email":"a@x.io"}`); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, code)
		}
	}
	if code := post("/api/newsletter", `{"email":"a@x.io"}`); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}

	// The feedback form has its own bucket.
	if code := post("/api/feedback", `{}`); code != http.StatusBadRequest {
		t.Errorf("expected feedback to reach the handler, got %d", code)
	}
}

func TestRouter_SpoofedForwardedForStillLimited(t *testing.T) {
	router := newTestRouter(t, testConfig())

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/newsletter", strings.NewReader(`{"email":"a@x.io"}`))
		req.RemoteAddr = "203.0.113.8:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i+1))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		last = rec.Code
	}

	if last != http.StatusTooManyRequests {
		t.Errorf("expected 429 despite rotating X-Forwarded-For, got %d", last)
	}
}

func TestRouter_ReadsAreNotRateLimited(t *testing.T) {
	router := newTestRouter(t, testConfig())

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/newsletter", nil)
		req.RemoteAddr = "203.0.113.6:4000"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}
}

func TestRouter_MetricsExposition(t *testing.T) {
	router := newTestRouter(t, testConfig())

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/creators", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "curator_http_requests_total") {
		t.Errorf("expected request metric in exposition, got:\n%s", rec.Body.String())
	}
}

// ============================================================================
// Secret redaction
// ============================================================================

func TestRedactURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"postgres://app:s3cret@db:5432/curator", "postgres://app@db:5432/curator"},
		{"redis://:s3cret@cache:6379/0", "redis://redacted@cache:6379/0"},
		{"redis://cache:6379", "redis://cache:6379"},
	}
	for _, tt := range tests {
		if got := redactURL(tt.in); got != tt.want {
			t.Errorf("redactURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeError(t *testing.T) {
	dsn := "postgres://app:s3cret@db:5432/curator"
	err := errors.New("dial " + dsn + " failed; password=hunter2 rejected")

	got := sanitizeError(err, dsn)
	if strings.Contains(got, "s3cret") || strings.Contains(got, "hunter2") {
		t.Errorf("secret leaked: %s", got)
	}
	if sanitizeError(nil) != "" {
		t.Error("nil error should sanitize to empty string")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
