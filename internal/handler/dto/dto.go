// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/agentengineer/curator/internal/model"
)

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// MessageResponse carries a single informational message.
type MessageResponse struct {
	Message string `json:"message"`
}

// DataResponse wraps a list or object payload.
type DataResponse[T any] struct {
	Data T `json:"data"`
}

// SubscribeRequest represents the request body for a newsletter signup.
type SubscribeRequest struct {
	Email string `json:"email"`
}

// SubscribeResponse represents a successful signup.
type SubscribeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// SubmitFeedbackRequest represents the request body for submitting feedback.
type SubmitFeedbackRequest struct {
	ContentType  string `json:"content_type"`
	ContentID    *int64 `json:"content_id,omitempty"`
	Rating       int    `json:"rating"`
	FeedbackText string `json:"feedback_text"`
	Email        string `json:"email,omitempty"`
}

// FeedbackResponse represents a stored feedback entry in API responses.
// The submitter's email is never echoed back.
type FeedbackResponse struct {
	ID           string                `json:"id"`
	ContentType  model.ContentCategory `json:"content_type"`
	ContentID    *int64                `json:"content_id"`
	Rating       int                   `json:"rating"`
	FeedbackText string                `json:"feedback_text"`
	HelpfulVotes int                   `json:"helpful_votes"`
	Verified     bool                  `json:"is_verified"`
	CreatedAt    string                `json:"created_at"`
}

// SubmitFeedbackResponse represents a successful feedback submission.
type SubmitFeedbackResponse struct {
	Success bool             `json:"success"`
	Data    FeedbackResponse `json:"data"`
}

// ToFeedbackResponse converts a Feedback model to FeedbackResponse DTO.
func ToFeedbackResponse(fb *model.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:           fb.ID,
		ContentType:  fb.ContentType,
		ContentID:    fb.ContentID,
		Rating:       fb.Rating,
		FeedbackText: fb.FeedbackText,
		HelpfulVotes: fb.HelpfulVotes,
		Verified:     fb.Verified,
		CreatedAt:    fb.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ToFeedbackList converts a slice of Feedback models, never returning nil.
func ToFeedbackList(entries []*model.Feedback) []FeedbackResponse {
	out := make([]FeedbackResponse, len(entries))
	for i, fb := range entries {
		out[i] = ToFeedbackResponse(fb)
	}
	return out
}
