// Package model defines domain entities for the application.
package model

import "time"

// SubscriberSourceWebsite marks signups that came through the site form.
const SubscriberSourceWebsite = "website"

// Subscriber represents one newsletter signup, keyed by normalized email.
type Subscriber struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	TokenHash string `json:"-"` // digest of the verification token; the token itself is never stored
	Verified  bool   `json:"verified"`
	Source    string `json:"source"`

	SubscribedAt time.Time  `json:"subscribed_at"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty"`
}

// VerificationOutcome is the terminal state reached by a token redemption.
type VerificationOutcome string

const (
	OutcomeMissingToken    VerificationOutcome = "no-token-supplied"
	OutcomeTokenNotFound   VerificationOutcome = "token-not-found"
	OutcomeAlreadyVerified VerificationOutcome = "already-verified"
	OutcomeNewlyVerified   VerificationOutcome = "newly-verified"
)

// SubscribeStatus describes what a signup request did.
type SubscribeStatus string

const (
	StatusSubscribed          SubscribeStatus = "subscribed"
	StatusAlreadySubscribed   SubscribeStatus = "already_subscribed"
	StatusNotificationPending SubscribeStatus = "notification_pending"
)
