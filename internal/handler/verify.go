package handler

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/agentengineer/curator/internal/middleware"
	"github.com/agentengineer/curator/internal/model"
	"github.com/agentengineer/curator/internal/service"
)

//go:embed templates/verify.html
var templateFS embed.FS

var verifyTemplate = template.Must(template.ParseFS(templateFS, "templates/verify.html"))

// pageCSP allows the inline <style> block of the rendered pages and nothing else.
const pageCSP = "default-src 'none'; style-src 'unsafe-inline'; frame-ancestors 'none'; base-uri 'none'"

// verifyPage is the data for one rendered verification page.
type verifyPage struct {
	SiteName string
	Title    string
	Success  bool
	Lead     string
	Email    string
	LeadTail string
	Lines    []string
}

// VerifyHandler renders the HTML pages for email verification links.
type VerifyHandler struct {
	svc      Newsletter
	siteName string
	logger   *slog.Logger
}

// NewVerifyHandler creates a new VerifyHandler.
func NewVerifyHandler(svc Newsletter, siteName string, logger *slog.Logger) *VerifyHandler {
	return &VerifyHandler{
		svc:      svc,
		siteName: siteName,
		logger:   logger,
	}
}

// Verify handles GET /verify and GET /api/newsletter/verify.
func (h *VerifyHandler) Verify(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Verify(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		h.logger.Error("newsletter_verify_failed",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		if errors.Is(err, service.ErrVerificationFailed) {
			h.render(w, http.StatusInternalServerError, verifyPage{
				Title: "❌ Verification Failed",
				Lines: []string{"There was an error verifying your subscription. Please try again."},
			})
			return
		}
		h.render(w, http.StatusInternalServerError, verifyPage{
			Title: "❌ Error",
			Lines: []string{"Something went wrong. Please try again later."},
		})
		return
	}

	switch result.Outcome {
	case model.OutcomeMissingToken:
		h.render(w, http.StatusBadRequest, verifyPage{
			Title: "❌ Invalid Verification Link",
			Lines: []string{"The verification link is missing or invalid."},
		})
	case model.OutcomeTokenNotFound:
		h.render(w, http.StatusBadRequest, verifyPage{
			Title: "❌ Invalid Token",
			Lines: []string{"This verification link is invalid or has expired."},
		})
	case model.OutcomeAlreadyVerified:
		h.render(w, http.StatusOK, verifyPage{
			Title:    "✅ Already Verified",
			Lead:     "Your email",
			Email:    result.Email,
			LeadTail: " is already verified for our newsletter.",
			Lines:    []string{"You'll receive our latest AI engineering content and resources."},
		})
	case model.OutcomeNewlyVerified:
		h.logger.Info("newsletter_verified", "request_id", middleware.GetRequestID(r.Context()))
		h.render(w, http.StatusOK, verifyPage{
			Title:   "🎉 Subscription Verified!",
			Success: true,
			Lead:    "Thanks for verifying your email",
			Email:   result.Email,
			Lines:   []string{"You're now subscribed to " + h.siteName + " newsletter!"},
		})
	default:
		h.logger.Error("unknown verification outcome", "outcome", result.Outcome)
		h.render(w, http.StatusInternalServerError, verifyPage{
			Title: "❌ Error",
			Lines: []string{"Something went wrong. Please try again later."},
		})
	}
}

// render executes the page into a buffer first so a template error can still
// produce a clean 500.
func (h *VerifyHandler) render(w http.ResponseWriter, status int, page verifyPage) {
	page.SiteName = h.siteName

	var buf bytes.Buffer
	if err := verifyTemplate.Execute(&buf, page); err != nil {
		h.logger.Error("verify page render failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Security-Policy", pageCSP)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
