// Package mailer sends reply emails over SMTP.
package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"donationdesk/internal/platform/config"
)

// SMTPSender delivers plain-text reply emails through a configured SMTP
// relay.
type SMTPSender struct {
	dialer       *gomail.Dialer
	from         string
	businessName string
}

// NewSMTPSender constructs a sender, or (nil, nil) when SMTP is not
// configured so the service can report sending as unavailable.
func NewSMTPSender(cfg config.SMTPConfig, businessName string) (*SMTPSender, error) {
	if cfg.Host == "" || cfg.User == "" {
		return nil, nil
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}
	return &SMTPSender{
		dialer:       gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:         cfg.From,
		businessName: businessName,
	}, nil
}

// Send delivers one plain-text email. The context is honored up front only;
// gomail's dial has no cancellation hook.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.businessName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}
