package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/agentengineer/curator/internal/metrics"
	"github.com/agentengineer/curator/internal/model"
)

// MaxFeedbackLength caps feedback_text, counted in characters after sanitizing.
const MaxFeedbackLength = 5000

// FeedbackStore persists feedback entries.
type FeedbackStore interface {
	CreateFeedback(ctx context.Context, fb *model.Feedback) error
	ListVerifiedFeedback(ctx context.Context, limit int) ([]*model.Feedback, error)
}

// FeedbackService handles feedback submission and the public listing.
type FeedbackService struct {
	store     FeedbackStore
	listLimit int
	policy    *bluemonday.Policy
	metrics   metrics.Recorder
}

// NewFeedbackService creates a new FeedbackService.
func NewFeedbackService(store FeedbackStore, listLimit int, recorder metrics.Recorder) *FeedbackService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if listLimit <= 0 {
		listLimit = 10
	}
	return &FeedbackService{
		store:     store,
		listLimit: listLimit,
		policy:    bluemonday.StrictPolicy(),
		metrics:   recorder,
	}
}

// SubmitFeedbackInput defines input for submitting feedback.
type SubmitFeedbackInput struct {
	ContentType  string `validate:"required,content_category"`
	ContentID    *int64 `validate:"omitempty,gt=0"`
	Rating       int    `validate:"required,min=1,max=5"`
	FeedbackText string `validate:"required,max=5000"`
	Email        string `validate:"omitempty,max=320,email"`
}

// Submit validates and stores a new, unverified feedback entry.
func (s *FeedbackService) Submit(ctx context.Context, input SubmitFeedbackInput) (*model.Feedback, error) {
	input.ContentType = strings.TrimSpace(input.ContentType)
	input.FeedbackText = s.sanitize(input.FeedbackText)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	// Forms send 0 when no item is selected.
	if input.ContentID != nil && *input.ContentID == 0 {
		input.ContentID = nil
	}

	if err := validate.Struct(input); err != nil {
		s.metrics.IncFeedbackSubmitted("rejected")
		return nil, mapFeedbackValidation(err)
	}

	fb := &model.Feedback{
		ID:           generateULID(),
		ContentType:  model.ContentCategory(input.ContentType),
		ContentID:    input.ContentID,
		Rating:       input.Rating,
		FeedbackText: input.FeedbackText,
		HelpfulVotes: 0,
		Verified:     false,
		CreatedAt:    time.Now().UTC(),
	}
	if input.Email != "" {
		email := input.Email
		fb.Email = &email
	}

	if err := s.store.CreateFeedback(ctx, fb); err != nil {
		s.metrics.IncFeedbackSubmitted("error")
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	s.metrics.IncFeedbackSubmitted("accepted")
	return fb, nil
}

// ListVerified returns the newest verified feedback entries without contact emails.
func (s *FeedbackService) ListVerified(ctx context.Context) ([]*model.Feedback, error) {
	entries, err := s.store.ListVerifiedFeedback(ctx, s.listLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}

	visible := make([]*model.Feedback, 0, len(entries))
	for _, fb := range entries {
		if !fb.Verified {
			continue
		}
		fb.Email = nil
		visible = append(visible, fb)
	}

	return visible, nil
}

// maxSanitizePasses bounds how many layers of entity encoding are peeled.
const maxSanitizePasses = 8

// sanitize strips markup and leaves plain text. Entity-encoded markup
// becomes live after unescaping, so passes repeat until the text is stable.
func (s *FeedbackService) sanitize(text string) string {
	for i := 0; i < maxSanitizePasses; i++ {
		next := html.UnescapeString(s.policy.Sanitize(text))
		if next == text {
			return strings.TrimSpace(text)
		}
		text = next
	}
	// Still changing: keep the escaped form so nothing can render as markup.
	return strings.TrimSpace(s.policy.Sanitize(text))
}

// mapFeedbackValidation turns validator errors into service errors. Missing
// fields take precedence over malformed ones.
func mapFeedbackValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return ErrMissingFields
	}

	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return ErrMissingFields
		}
	}

	switch fe := verrs[0]; fe.Field() {
	case "ContentType":
		return ErrInvalidContentType
	case "ContentID":
		return ErrInvalidContentID
	case "Rating":
		return ErrInvalidRating
	case "FeedbackText":
		return ErrFeedbackTooLong
	case "Email":
		return ErrInvalidFeedbackEmail
	default:
		return fmt.Errorf("%w: %s", ErrMissingFields, fe.Field())
	}
}
