package repository

import (
	"context"
	"fmt"

	"github.com/agentengineer/curator/internal/model"
)

// CreateFeedback inserts a feedback entry. Verified is stored as given; callers
// always submit false.
func (r *Repository) CreateFeedback(ctx context.Context, fb *model.Feedback) error {
	query := `
		INSERT INTO user_feedback (id, content_type, content_id, rating, feedback_text, email, helpful_votes, is_verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		fb.ID,
		fb.ContentType,
		fb.ContentID,
		fb.Rating,
		fb.FeedbackText,
		fb.Email,
		fb.HelpfulVotes,
		fb.Verified,
		fb.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}

	return nil
}

// ListVerifiedFeedback returns the newest verified entries, up to limit.
// The contact email is never selected.
func (r *Repository) ListVerifiedFeedback(ctx context.Context, limit int) ([]*model.Feedback, error) {
	query := `
		SELECT id, content_type, content_id, rating, feedback_text, helpful_votes, is_verified, created_at
		FROM user_feedback
		WHERE is_verified = TRUE
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	entries := make([]*model.Feedback, 0, limit)
	for rows.Next() {
		var fb model.Feedback
		if err := rows.Scan(
			&fb.ID,
			&fb.ContentType,
			&fb.ContentID,
			&fb.Rating,
			&fb.FeedbackText,
			&fb.HelpfulVotes,
			&fb.Verified,
			&fb.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		entries = append(entries, &fb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback: %w", err)
	}

	return entries, nil
}
