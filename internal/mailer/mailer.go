// Package mailer sends transactional email through a pluggable provider.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/agentengineer/curator/internal/config"
	"github.com/agentengineer/curator/internal/metrics"
)

// Message is one outbound email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

// Provider delivers a Message.
type Provider interface {
	Send(ctx context.Context, msg *Message) error
	Name() string
}

// ErrInvalidAddress is returned when a sender or recipient address is rejected
// before any network call is made.
var ErrInvalidAddress = errors.New("invalid email address")

// NewProvider builds the provider selected by MAIL_PROVIDER.
func NewProvider(cfg *config.Config, logger *slog.Logger) (Provider, error) {
	switch cfg.MailProvider {
	case config.MailProviderSMTP:
		return NewSMTPProvider(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			Insecure: cfg.SMTPInsecure,
		})
	case config.MailProviderResend:
		return NewResendProvider(cfg.ResendAPIKey, cfg.ResendBaseURL, cfg.MailTimeout)
	case config.MailProviderLog:
		return NewLogProvider(logger), nil
	default:
		return nil, fmt.Errorf("unsupported mail provider: %s", cfg.MailProvider)
	}
}

// Mailer renders and sends the application's emails.
type Mailer struct {
	provider Provider
	from     string
	siteName string
	timeout  time.Duration
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// Options configures a Mailer.
type Options struct {
	From     string
	SiteName string
	Timeout  time.Duration
}

// New creates a Mailer. A nil recorder discards metrics.
func New(provider Provider, opts Options, recorder metrics.Recorder, logger *slog.Logger) *Mailer {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{
		provider: provider,
		from:     opts.From,
		siteName: opts.SiteName,
		timeout:  opts.Timeout,
		metrics:  recorder,
		logger:   logger,
	}
}

// ProviderName returns the name of the configured provider.
func (m *Mailer) ProviderName() string {
	return m.provider.Name()
}

// SendVerification emails the double opt-in link to a new subscriber.
func (m *Mailer) SendVerification(ctx context.Context, to, verifyURL string) error {
	content, err := RenderVerification(m.siteName, verifyURL)
	if err != nil {
		return err
	}

	return m.send(ctx, &Message{
		From:    m.from,
		To:      to,
		Subject: content.Subject,
		HTML:    content.HTML,
		Text:    content.Text,
	})
}

func (m *Mailer) send(ctx context.Context, msg *Message) error {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	start := time.Now()
	err := m.provider.Send(ctx, msg)
	elapsed := time.Since(start)

	if err != nil {
		m.metrics.ObserveEmailSend(m.provider.Name(), "failed", elapsed)
		return fmt.Errorf("send via %s: %w", m.provider.Name(), err)
	}

	m.metrics.ObserveEmailSend(m.provider.Name(), "sent", elapsed)
	m.logger.Debug("email sent",
		"provider", m.provider.Name(),
		"subject", msg.Subject,
		"duration_ms", elapsed.Milliseconds(),
	)
	return nil
}
