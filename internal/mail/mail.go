// Package mail sends the transactional messages the storefront produces:
// account verification, password reset, and purchase confirmations.
package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Mailer delivers one message to one recipient.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers mail through a plain SMTP relay.
type SMTPMailer struct {
	Host     string // Relay host.
	Port     int    // Relay port.
	Username string // Auth user; empty disables auth.
	Password string // Auth password.
	From     string // Envelope and header sender.
}

// Send builds an RFC 5322 message and submits it to the relay.
func (m *SMTPMailer) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if errSend := smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg.String())); errSend != nil {
		return fmt.Errorf("mail: send to %s: %w", to, errSend)
	}
	return nil
}

// LogMailer writes messages to the log instead of delivering them. Used in
// development and tests.
type LogMailer struct{}

// Send logs the message.
func (LogMailer) Send(to, subject, body string) error {
	log.WithFields(log.Fields{
		"to":      to,
		"subject": subject,
	}).Info("mail (log only)")
	log.Debug(body)
	return nil
}
