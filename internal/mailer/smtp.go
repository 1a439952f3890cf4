package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
)

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.host == "" {
		return fmt.Errorf("mailer: SMTP is not configured")
	}

	msg := []byte("From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n\r\n" +
		body + "\r\n")

	addr := net.JoinHostPort(m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	// net/smtp has no context support; honor cancellation before dialing.
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("mailer: sending to %s: %w", to, err)
	}
	return nil
}
