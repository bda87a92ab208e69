package model

import "time"

// ContentCategory identifies what a feedback entry is about.
type ContentCategory string

const (
	CategoryCreator  ContentCategory = "creator"
	CategoryOffering ContentCategory = "offering"
	CategoryContent  ContentCategory = "content"
)

// IsValid checks if the category is one of the fixed set.
func (c ContentCategory) IsValid() bool {
	switch c {
	case CategoryCreator, CategoryOffering, CategoryContent:
		return true
	}
	return false
}

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Feedback is a visitor-submitted rating and comment. Entries start unverified
// and are only shown publicly after manual moderation flips Verified.
type Feedback struct {
	ID           string          `json:"id"`
	ContentType  ContentCategory `json:"content_type"`
	ContentID    *int64          `json:"content_id,omitempty"`
	Rating       int             `json:"rating"`
	FeedbackText string          `json:"feedback_text"`
	Email        *string         `json:"email,omitempty"`
	HelpfulVotes int             `json:"helpful_votes"`
	Verified     bool            `json:"is_verified"`
	CreatedAt    time.Time       `json:"created_at"`
}
