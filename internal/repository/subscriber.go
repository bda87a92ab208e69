package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agentengineer/curator/internal/model"
	"github.com/jackc/pgx/v5"
)

// Common errors for subscriber repository operations.
var (
	ErrSubscriberNotFound = errors.New("subscriber not found")
	ErrEmailExists        = errors.New("email already subscribed")
	// ErrSubscriberNotPending is returned when a verification update matched
	// no unverified row, i.e. somebody else verified it first.
	ErrSubscriberNotPending = errors.New("subscriber is not pending verification")
)

const subscriberColumns = `id, email, verification_token_hash, is_verified, source, subscribed_at, verified_at`

// CreateSubscriber inserts a pending subscriber.
// Returns ErrEmailExists when the email is already present.
func (r *Repository) CreateSubscriber(ctx context.Context, sub *model.Subscriber) error {
	query := `
		INSERT INTO newsletter_subscribers (id, email, verification_token_hash, is_verified, source, subscribed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO NOTHING
	`

	result, err := r.pool.Exec(ctx, query,
		sub.ID,
		sub.Email,
		sub.TokenHash,
		sub.Verified,
		sub.Source,
		sub.SubscribedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create subscriber: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrEmailExists
	}

	return nil
}

// GetSubscriberByEmail retrieves a subscriber by normalized email.
func (r *Repository) GetSubscriberByEmail(ctx context.Context, email string) (*model.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM newsletter_subscribers WHERE email = $1`

	sub, err := scanSubscriber(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriberNotFound
		}
		return nil, fmt.Errorf("failed to get subscriber by email: %w", err)
	}

	return sub, nil
}

// GetSubscriberByTokenHash retrieves a subscriber by verification token digest.
func (r *Repository) GetSubscriberByTokenHash(ctx context.Context, tokenHash string) (*model.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM newsletter_subscribers WHERE verification_token_hash = $1`

	sub, err := scanSubscriber(r.pool.QueryRow(ctx, query, tokenHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriberNotFound
		}
		return nil, fmt.Errorf("failed to get subscriber by token: %w", err)
	}

	return sub, nil
}

// MarkSubscriberVerified flips a pending subscriber to verified.
// Only one caller can win for a given token; the rest get ErrSubscriberNotPending.
func (r *Repository) MarkSubscriberVerified(ctx context.Context, tokenHash string, at time.Time) (*model.Subscriber, error) {
	query := `
		UPDATE newsletter_subscribers
		SET is_verified = TRUE, verified_at = $2
		WHERE verification_token_hash = $1 AND is_verified = FALSE
		RETURNING ` + subscriberColumns

	sub, err := scanSubscriber(r.pool.QueryRow(ctx, query, tokenHash, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriberNotPending
		}
		return nil, fmt.Errorf("failed to verify subscriber: %w", err)
	}

	return sub, nil
}

func scanSubscriber(row pgx.Row) (*model.Subscriber, error) {
	var sub model.Subscriber
	err := row.Scan(
		&sub.ID,
		&sub.Email,
		&sub.TokenHash,
		&sub.Verified,
		&sub.Source,
		&sub.SubscribedAt,
		&sub.VerifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
