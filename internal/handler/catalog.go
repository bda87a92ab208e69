package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/agentengineer/curator/internal/handler/dto"
	"github.com/agentengineer/curator/internal/middleware"
	"github.com/agentengineer/curator/internal/model"
	"github.com/agentengineer/curator/internal/service"
)

// Catalog is the read-only catalog surface.
type Catalog interface {
	ListCreators(ctx context.Context) ([]*model.Creator, error)
	GetCreatorProfile(ctx context.Context, slug string) (*model.CreatorProfile, error)
	ListOfferings(ctx context.Context) ([]*model.Offering, error)
	ListContent(ctx context.Context) ([]*model.ContentReview, error)
	GetContent(ctx context.Context, id int64) (*model.ContentReview, error)
}

// CatalogHandler handles HTTP requests for creators, offerings and content.
type CatalogHandler struct {
	svc    Catalog
	logger *slog.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(svc Catalog, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		svc:    svc,
		logger: logger,
	}
}

// ListCreators handles GET /api/creators.
func (h *CatalogHandler) ListCreators(w http.ResponseWriter, r *http.Request) {
	creators, err := h.svc.ListCreators(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.DataResponse[[]*model.Creator]{Data: nonNil(creators)})
}

// GetCreator handles GET /api/creators/{slug}.
func (h *CatalogHandler) GetCreator(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.GetCreatorProfile(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	profile.Offerings = nonNil(profile.Offerings)
	profile.ContentReviews = nonNil(profile.ContentReviews)
	writeJSON(w, http.StatusOK, dto.DataResponse[*model.CreatorProfile]{Data: profile})
}

// ListOfferings handles GET /api/offerings.
func (h *CatalogHandler) ListOfferings(w http.ResponseWriter, r *http.Request) {
	offerings, err := h.svc.ListOfferings(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.DataResponse[[]*model.Offering]{Data: nonNil(offerings)})
}

// ListContent handles GET /api/content.
func (h *CatalogHandler) ListContent(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.svc.ListContent(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.DataResponse[[]*model.ContentReview]{Data: nonNil(reviews)})
}

// GetContent handles GET /api/content/{id}.
func (h *CatalogHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Content ID must be a positive integer")
		return
	}

	review, err := h.svc.GetContent(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.DataResponse[*model.ContentReview]{Data: review})
}

// handleServiceError maps service errors to HTTP responses.
func (h *CatalogHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrCreatorNotFound):
		writeError(w, http.StatusNotFound, "CREATOR_NOT_FOUND", "Creator not found")
	case errors.Is(err, service.ErrContentNotFound):
		writeError(w, http.StatusNotFound, "CONTENT_NOT_FOUND", "Content not found")
	default:
		h.logger.Error("internal_error",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
