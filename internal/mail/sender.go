package mail

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
)

type Sender interface {
	Send(to, subject, textBody, htmlBody string) error
}

// ConsoleSender logs mail instead of sending it. Used when no SMTP provider
// is configured, and as the default in development.
type ConsoleSender struct{}

func (s *ConsoleSender) Send(to, subject, textBody, htmlBody string) error {
	log.Printf("=== MOCK EMAIL ===\nTo: %s\nSubject: %s\n%s\n==================", to, subject, textBody)
	return nil
}

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

type SMTPSender struct {
	config SMTPConfig
}

func NewSMTPSender(config SMTPConfig) *SMTPSender {
	return &SMTPSender{config: config}
}

func (s *SMTPSender) Send(to, subject, textBody, htmlBody string) error {
	body, contentType := htmlBody, "text/html"
	if body == "" {
		body, contentType = textBody, "text/plain"
	}

	msg := []byte(fmt.Sprintf(
		"To: %s\r\nFrom: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: %s; charset=\"UTF-8\"\r\n\r\n%s",
		to, s.config.From, subject, contentType, body,
	))

	addr := fmt.Sprintf("%s:%s", s.config.Host, s.config.Port)
	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	if err := smtp.SendMail(addr, auth, s.config.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// NewSenderFromEnv builds an SMTP sender when MAIL_PROVIDER=smtp, otherwise a
// console sender.
func NewSenderFromEnv() Sender {
	if os.Getenv("MAIL_PROVIDER") == "smtp" {
		return NewSMTPSender(SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     os.Getenv("SMTP_PORT"),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		})
	}
	return &ConsoleSender{}
}
