package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
)

// Sender sends a fully formed email message. rawMessage contains all
// headers and the body, properly formatted.
type Sender interface {
	Send(ctx context.Context, to []string, subject string, rawMessage []byte) error
}

// SMTPConfig holds the settings needed to reach an SMTP relay.
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
}

// SMTPSender implements Sender over net/smtp.
type SMTPSender struct {
	cfg    SMTPConfig
	auth   smtp.Auth
	addr   string
	logger *slog.Logger
}

// NewSMTPSender creates a Sender for the given SMTP settings. When no
// host is configured it returns a LoggingSender instead, so reply
// forwarding degrades to log output rather than failing.
func NewSMTPSender(cfg SMTPConfig, logger *slog.Logger) Sender {
	if cfg.Host == "" {
		logger.Warn("SMTP host not configured, using logging email sender")
		return &LoggingSender{logger: logger}
	}

	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	return &SMTPSender{
		cfg:    cfg,
		auth:   auth,
		addr:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		logger: logger.With("sender", "smtp"),
	}
}

func (s *SMTPSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	if err := smtp.SendMail(s.addr, s.auth, s.cfg.FromAddress, to, rawMessage); err != nil {
		s.logger.ErrorContext(ctx, "Failed to send email via SMTP", "to", to, "error", err)
		return fmt.Errorf("smtp error: %w", err)
	}
	s.logger.InfoContext(ctx, "Email sent via SMTP", "to", to, "subject", subject)
	return nil
}

// LoggingSender logs email details instead of sending them. Used in
// development and whenever SMTP is unconfigured.
type LoggingSender struct {
	logger *slog.Logger
}

func (s *LoggingSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	s.logger.InfoContext(ctx, "Email (logged, not sent)",
		"to", to, "subject", subject, "message", string(rawMessage))
	return nil
}
