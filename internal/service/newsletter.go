package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/agentengineer/curator/internal/metrics"
	"github.com/agentengineer/curator/internal/model"
	"github.com/agentengineer/curator/internal/repository"
	"github.com/agentengineer/curator/internal/token"
)

// SubscriberStore persists newsletter subscribers.
type SubscriberStore interface {
	GetSubscriberByEmail(ctx context.Context, email string) (*model.Subscriber, error)
	CreateSubscriber(ctx context.Context, sub *model.Subscriber) error
	GetSubscriberByTokenHash(ctx context.Context, tokenHash string) (*model.Subscriber, error)
	MarkSubscriberVerified(ctx context.Context, tokenHash string, at time.Time) (*model.Subscriber, error)
}

// VerificationSender delivers the double opt-in email.
type VerificationSender interface {
	SendVerification(ctx context.Context, to, verifyURL string) error
}

// NewsletterService handles signup and verification.
type NewsletterService struct {
	store   SubscriberStore
	sender  VerificationSender
	baseURL string
	metrics metrics.Recorder
	logger  *slog.Logger
	now     func() time.Time
}

// NewNewsletterService creates a new NewsletterService.
func NewNewsletterService(store SubscriberStore, sender VerificationSender, baseURL string, recorder metrics.Recorder, logger *slog.Logger) *NewsletterService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NewsletterService{
		store:   store,
		sender:  sender,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		metrics: recorder,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SubscribeResult describes what Subscribe did.
type SubscribeResult struct {
	Status     model.SubscribeStatus
	Subscriber *model.Subscriber
}

// Subscribe registers an email for the newsletter and sends the confirmation
// link. Re-subscribing an existing address is a successful no-op.
func (s *NewsletterService) Subscribe(ctx context.Context, rawEmail string) (*SubscribeResult, error) {
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		s.metrics.IncSubscription("rejected")
		return nil, err
	}

	existing, err := s.store.GetSubscriberByEmail(ctx, email)
	if err == nil {
		s.metrics.IncSubscription(string(model.StatusAlreadySubscribed))
		return &SubscribeResult{Status: model.StatusAlreadySubscribed, Subscriber: existing}, nil
	}
	if !errors.Is(err, repository.ErrSubscriberNotFound) {
		s.metrics.IncSubscription("error")
		return nil, fmt.Errorf("failed to look up subscriber: %w", err)
	}

	tok, err := token.Generate()
	if err != nil {
		s.metrics.IncSubscription("error")
		return nil, err
	}

	sub := &model.Subscriber{
		ID:           generateULID(),
		Email:        email,
		TokenHash:    tok.Hash,
		Verified:     false,
		Source:       model.SubscriberSourceWebsite,
		SubscribedAt: s.now(),
	}

	if err := s.store.CreateSubscriber(ctx, sub); err != nil {
		// Lost a race with a concurrent signup for the same address.
		if errors.Is(err, repository.ErrEmailExists) {
			s.metrics.IncSubscription(string(model.StatusAlreadySubscribed))
			return &SubscribeResult{Status: model.StatusAlreadySubscribed}, nil
		}
		s.metrics.IncSubscription("error")
		return nil, fmt.Errorf("failed to create subscriber: %w", err)
	}

	if err := s.sender.SendVerification(ctx, email, s.VerifyURL(tok.Plaintext)); err != nil {
		s.logger.WarnContext(ctx, "verification email not sent",
			"subscriber_id", sub.ID,
			"error", err,
		)
		s.metrics.IncSubscription(string(model.StatusNotificationPending))
		return &SubscribeResult{Status: model.StatusNotificationPending, Subscriber: sub}, nil
	}

	s.metrics.IncSubscription(string(model.StatusSubscribed))
	return &SubscribeResult{Status: model.StatusSubscribed, Subscriber: sub}, nil
}

// VerifyResult is the outcome of redeeming a token.
type VerifyResult struct {
	Outcome model.VerificationOutcome
	Email   string
}

// Verify redeems a verification token. Errors are returned only when the
// database could not be read or written; wrong tokens are outcomes, not errors.
// A failed update is reported as ErrVerificationFailed.
func (s *NewsletterService) Verify(ctx context.Context, rawToken string) (*VerifyResult, error) {
	presented := strings.TrimSpace(rawToken)
	if presented == "" {
		return s.verified(model.OutcomeMissingToken, ""), nil
	}
	if !token.WellFormed(presented) {
		return s.verified(model.OutcomeTokenNotFound, ""), nil
	}

	hash := token.Hash(presented)

	sub, err := s.store.GetSubscriberByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriberNotFound) {
			return s.verified(model.OutcomeTokenNotFound, ""), nil
		}
		s.metrics.IncVerification("error")
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}

	if sub.Verified {
		return s.verified(model.OutcomeAlreadyVerified, sub.Email), nil
	}

	updated, err := s.store.MarkSubscriberVerified(ctx, hash, s.now())
	if err != nil {
		// Someone else redeemed the same token between our read and write.
		if errors.Is(err, repository.ErrSubscriberNotPending) {
			return s.verified(model.OutcomeAlreadyVerified, sub.Email), nil
		}
		s.metrics.IncVerification("error")
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	return s.verified(model.OutcomeNewlyVerified, updated.Email), nil
}

// VerifyURL builds the link that goes into the confirmation email.
func (s *NewsletterService) VerifyURL(plaintextToken string) string {
	return s.baseURL + "/verify?token=" + url.QueryEscape(plaintextToken)
}

func (s *NewsletterService) verified(outcome model.VerificationOutcome, email string) *VerifyResult {
	s.metrics.IncVerification(string(outcome))
	return &VerifyResult{Outcome: outcome, Email: email}
}

// normalizeEmail trims and lowercases an address and applies the minimal
// shape check: non-empty and containing "@".
func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if err := validate.Var(email, "required,contains=@,max=320"); err != nil {
		return "", ErrInvalidEmail
	}
	return email, nil
}
