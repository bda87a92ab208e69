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

// Feedback is the submission and listing surface of the feedback service.
type Feedback interface {
	Submit(ctx context.Context, input service.SubmitFeedbackInput) (*model.Feedback, error)
	ListVerified(ctx context.Context) ([]*model.Feedback, error)
}

// FeedbackHandler handles HTTP requests for visitor feedback.
type FeedbackHandler struct {
	svc    Feedback
	logger *slog.Logger
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(svc Feedback, logger *slog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		svc:    svc,
		logger: logger,
	}
}

// Submit handles POST /api/feedback.
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitFeedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	fb, err := h.svc.Submit(r.Context(), service.SubmitFeedbackInput{
		ContentType:  req.ContentType,
		ContentID:    req.ContentID,
		Rating:       req.Rating,
		FeedbackText: req.FeedbackText,
		Email:        req.Email,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("feedback_submitted",
		"feedback_id", fb.ID,
		"content_type", fb.ContentType,
		"rating", fb.Rating,
	)

	writeJSON(w, http.StatusOK, dto.SubmitFeedbackResponse{
		Success: true,
		Data:    dto.ToFeedbackResponse(fb),
	})
}

// List handles GET /api/feedback.
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListVerified(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DataResponse[[]dto.FeedbackResponse]{
		Data: dto.ToFeedbackList(entries),
	})
}

// handleServiceError maps service errors to HTTP responses.
func (h *FeedbackHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "Missing required fields")
	case errors.Is(err, service.ErrInvalidRating):
		writeError(w, http.StatusBadRequest, "INVALID_RATING", "Rating must be between 1 and 5")
	case errors.Is(err, service.ErrInvalidContentType):
		writeError(w, http.StatusBadRequest, "INVALID_CONTENT_TYPE", "content_type must be one of creator, offering, content")
	case errors.Is(err, service.ErrInvalidContentID):
		writeError(w, http.StatusBadRequest, "INVALID_CONTENT_ID", "content_id must not be negative")
	case errors.Is(err, service.ErrInvalidFeedbackEmail):
		writeError(w, http.StatusBadRequest, "INVALID_EMAIL", "Email is not a valid address")
	case errors.Is(err, service.ErrFeedbackTooLong):
		writeError(w, http.StatusBadRequest, "FEEDBACK_TOO_LONG", "Feedback text exceeds maximum length")
	default:
		h.logger.Error("internal_error",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
