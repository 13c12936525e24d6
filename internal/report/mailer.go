package report

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/config"
)

// Mailer delivers one rendered HTML email.
type Mailer interface {
	Send(to []string, subject, htmlBody string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer creates a mailer for the given relay settings.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send builds an HTML MIME message and hands it to the relay. Uses PLAIN
// auth when a username is configured.
func (m *SMTPMailer) Send(to []string, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&sb, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(htmlBody)

	if err := smtp.SendMail(addr, auth, m.cfg.From, to, []byte(sb.String())); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
