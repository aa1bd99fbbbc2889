// Package mailer sends transactional email over SMTP. It is used to deliver
// magic sign-in links.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends a single email.
type Mailer interface {
	Send(recipient, subject, body string) error
}

// SMTPMailer implements Mailer against a plain-auth SMTP server.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPMailer creates an SMTPMailer. All fields are required.
func NewSMTPMailer(host, port, username, password, from string) (*SMTPMailer, error) {
	if host == "" || port == "" {
		return nil, fmt.Errorf("SMTP host and port must be provided")
	}
	if username == "" || password == "" {
		return nil, fmt.Errorf("SMTP username and password must be provided")
	}
	if from == "" {
		return nil, fmt.Errorf("sender address must be provided")
	}
	return &SMTPMailer{host: host, port: port, username: username, password: password, from: from}, nil
}

// Send delivers one message. The content type is inferred from the body:
// anything containing HTML tags goes out as text/html.
func (m *SMTPMailer) Send(recipient, subject, body string) error {
	if recipient == "" {
		return fmt.Errorf("recipient email address cannot be empty")
	}
	if subject == "" {
		return fmt.Errorf("email subject cannot be empty")
	}

	contentType := "text/plain; charset=UTF-8"
	lower := strings.ToLower(body)
	if strings.Contains(lower, "<html>") || strings.Contains(lower, "<p>") || strings.Contains(lower, "<a ") {
		contentType = "text/html; charset=UTF-8"
	}

	message := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: %s\r\n"+
		"\r\n"+
		"%s\r\n", recipient, m.from, subject, contentType, body))

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	addr := m.host + ":" + m.port

	if err := smtp.SendMail(addr, auth, m.from, []string{recipient}, message); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", recipient, err)
	}
	return nil
}
