// Package email delivers internal alert emails over SMTP.
package email

import (
	"context"
	"fmt"
	"time"

	"crm_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// Sender delivers an HTML alert to the configured team address.
type Sender interface {
	SendAlert(ctx context.Context, subject, htmlContent string) error
}

// NoopSender silently drops alerts; used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendAlert(ctx context.Context, subject, htmlContent string) error {
	return nil
}

// SMTPSender implements Sender with a direct SMTP connection via go-mail.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       string
}

// NewSender returns an SMTPSender, or NoopSender when SMTP is not
// configured so callers never need a nil check.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.IsEmailEnabled() {
		return NoopSender{}
	}
	return &SMTPSender{
		host:     cfg.GetSMTPHost(),
		port:     cfg.GetSMTPPort(),
		username: cfg.GetSMTPUsername(),
		password: cfg.GetSMTPPassword(),
		from:     cfg.GetEmailFromAddress(),
		to:       cfg.GetNotifyEmailAddress(),
	}
}

func (s *SMTPSender) SendAlert(ctx context.Context, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(s.to); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
