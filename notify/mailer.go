package notify

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"housing-monitor/utils"
)

// Mailer delivers formatted mail to one or more recipients.
type Mailer interface {
	SendHTML(subject, body string, recipients []string) error
	SendText(subject, body string, recipients []string) error
}

// SMTPMailer sends mail over SMTP with STARTTLS (Gmail app-password setup).
type SMTPMailer struct {
	host     string
	port     int
	user     string
	password string
	logger   *utils.Logger
}

// NewSMTPMailer creates an SMTPMailer with the given transport credentials.
func NewSMTPMailer(host string, port int, user, password string, logger *utils.Logger) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, user: user, password: password, logger: logger}
}

// SendHTML delivers an HTML-bodied message.
func (m *SMTPMailer) SendHTML(subject, body string, recipients []string) error {
	return m.send(subject, body, "text/html", recipients)
}

// SendText delivers a plain-text message.
func (m *SMTPMailer) SendText(subject, body string, recipients []string) error {
	return m.send(subject, body, "text/plain", recipients)
}

func (m *SMTPMailer) send(subject, body, contentType string, recipients []string) error {
	if m.user == "" || m.password == "" {
		return fmt.Errorf("notify: missing GMAIL_USER or GMAIL_APP_PASSWORD")
	}
	if len(recipients) == 0 {
		return fmt.Errorf("notify: no recipients configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.user)
	msg.SetHeader("To", recipients...)
	msg.SetHeader("Subject", subject)
	msg.SetBody(contentType, body)

	dialer := gomail.NewDialer(m.host, m.port, m.user, m.password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("notify: send mail: %w", err)
	}

	m.logger.Info("[notify] Mail sent to %d recipient(s)", len(recipients))
	return nil
}
