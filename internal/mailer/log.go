package mailer

import (
	"context"
	"log/slog"
)

// LogProvider writes emails to the log instead of sending them.
// Meant for local development.
type LogProvider struct {
	logger *slog.Logger
}

// NewLogProvider creates a LogProvider.
func NewLogProvider(logger *slog.Logger) *LogProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogProvider{logger: logger.With("component", "mailer")}
}

// Name returns the provider name.
func (p *LogProvider) Name() string {
	return "log"
}

// Send logs the message.
func (p *LogProvider) Send(ctx context.Context, msg *Message) error {
	p.logger.InfoContext(ctx, "email not sent (log provider)",
		"from", msg.From,
		"to", msg.To,
		"subject", msg.Subject,
		"text", msg.Text,
	)
	return nil
}
