package notifier

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"
)

// EmailSender delivers a rendered email to one address.
type EmailSender interface {
	SendEmail(ctx context.Context, to string, msg Rendered) error
}

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

const mimeBoundary = "sekarnet-alt-boundary"

// SendEmail sends a multipart/alternative message with text and html parts.
func (m *SMTPMailer) SendEmail(ctx context.Context, to string, msg Rendered) error {
	if m.cfg.Host == "" {
		return errors.New("smtp host not configured")
	}
	if _, err := mail.ParseAddress(to); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", to, err)
	}

	from := m.cfg.From
	if from == "" {
		from = m.cfg.User
	}
	envelopeFrom := m.cfg.User
	if addr, err := mail.ParseAddress(from); err == nil {
		envelopeFrom = addr.Address
	}

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: multipart/alternative; boundary=\"" + mimeBoundary + "\"\r\n\r\n")
	b.WriteString("--" + mimeBoundary + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(msg.Text + "\r\n")
	b.WriteString("--" + mimeBoundary + "\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(msg.HTML + "\r\n")
	b.WriteString("--" + mimeBoundary + "--\r\n")

	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	// net/smtp has no context support; bound the call instead.
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, envelopeFrom, []string{to}, []byte(b.String()))
	}()
	timeout := 30 * time.Second
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(timeout):
		return fmt.Errorf("smtp send to %s timed out after %s", to, timeout)
	}
}
