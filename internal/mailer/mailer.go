// internal/mailer/mailer.go
package mailer

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/smtp"
	"os"
	"strings"
)

// Mailer sends one email and returns the provider message id. The mailing
// dispatcher treats any returned error as a failed delivery for that
// recipient only.
type Mailer interface {
	Send(to, subject, htmlBody string) (string, error)
}

// SMTPMailer delivers through a plain SMTP relay.
type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// NewSMTPMailerFromEnv builds an SMTPMailer from SMTP_* environment variables.
func NewSMTPMailerFromEnv() *SMTPMailer {
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	return &SMTPMailer{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) (string, error) {
	if m.Host == "" {
		return "", fmt.Errorf("SMTP_HOST is not configured")
	}

	messageID := fmt.Sprintf("<%s@%s>", randomToken(), m.Host)

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", m.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString(fmt.Sprintf("Message-ID: %s\r\n", messageID))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}

	addr := m.Host + ":" + m.Port
	if err := smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg.String())); err != nil {
		return "", err
	}
	return messageID, nil
}

func randomToken() string {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "mailblast"
	}
	return hex.EncodeToString(b)
}
