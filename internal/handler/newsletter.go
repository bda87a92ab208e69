package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/agentengineer/curator/internal/handler/dto"
	"github.com/agentengineer/curator/internal/middleware"
	"github.com/agentengineer/curator/internal/model"
	"github.com/agentengineer/curator/internal/service"
)

// Newsletter is the signup and verification surface of the newsletter service.
type Newsletter interface {
	Subscribe(ctx context.Context, email string) (*service.SubscribeResult, error)
	Verify(ctx context.Context, token string) (*service.VerifyResult, error)
}

// NewsletterHandler handles HTTP requests for newsletter signup.
type NewsletterHandler struct {
	svc    Newsletter
	logger *slog.Logger
}

// NewNewsletterHandler creates a new NewsletterHandler.
func NewNewsletterHandler(svc Newsletter, logger *slog.Logger) *NewsletterHandler {
	return &NewsletterHandler{
		svc:    svc,
		logger: logger,
	}
}

var subscribeMessages = map[model.SubscribeStatus]string{
	model.StatusSubscribed:          "Successfully subscribed!",
	model.StatusAlreadySubscribed:   "Email already subscribed",
	model.StatusNotificationPending: "Subscribed, but we could not send the confirmation email. Please try again later.",
}

// Subscribe handles POST /api/newsletter.
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req dto.SubscribeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	result, err := h.svc.Subscribe(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, service.ErrInvalidEmail) {
			writeError(w, http.StatusBadRequest, "INVALID_EMAIL", "Valid email is required")
			return
		}
		h.logger.Error("newsletter_signup_failed",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to subscribe")
		return
	}

	if result.Status == model.StatusSubscribed {
		h.logger.Info("newsletter_subscribed", "subscriber_id", result.Subscriber.ID)
	}

	writeJSON(w, http.StatusOK, dto.SubscribeResponse{
		Success: true,
		Message: subscribeMessages[result.Status],
		Status:  string(result.Status),
	})
}

// Info handles GET /api/newsletter.
func (h *NewsletterHandler) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Message: "Newsletter API endpoint is working. Use POST to subscribe.",
	})
}
