package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/merchantry/storefront/internal/storefront/domain"
)

// SMTPMailer sends messages through a plain SMTP relay. Auth is optional;
// leave Username empty for an unauthenticated relay (typical in dev
// compose setups).
type SMTPMailer struct {
	Addr     string // host:port
	From     string
	Username string
	Password string
	Host     string // hostname for AUTH; derived from Addr when empty
}

var _ Mailer = (*SMTPMailer)(nil)

func (m *SMTPMailer) Send(_ context.Context, to domain.User, kind Kind, token string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.From, to.Email, subjectFor(kind), bodyFor(kind, token))

	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}

	if err := smtp.SendMail(m.Addr, auth, m.From, []string{to.Email}, []byte(msg)); err != nil {
		return fmt.Errorf("mailer: send %s to %s: %w", kind, to.Email, err)
	}
	return nil
}
