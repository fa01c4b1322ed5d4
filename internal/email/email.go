package email

import (
	"fmt"
	"os"
	"strconv"

	mail "gopkg.in/mail.v2"
)

// Mailer sends reminder emails over SMTP.
type Mailer struct {
	host     string
	port     int
	from     string
	password string
}

func NewMailer(host string, port int, from, password string) *Mailer {
	return &Mailer{host: host, port: port, from: from, password: password}
}

// NewMailerFromEnv builds a mailer from SMTP_HOST, SMTP_PORT, EMAIL_ADDRESS
// and EMAIL_PASSWORD. Returns nil when EMAIL_ADDRESS is unset, which disables
// email delivery.
func NewMailerFromEnv() *Mailer {
	from := os.Getenv("EMAIL_ADDRESS")
	if from == "" {
		return nil
	}
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port <= 0 {
		port = 587
	}
	return NewMailer(host, port, from, os.Getenv("EMAIL_PASSWORD"))
}

func (m *Mailer) Send(to, subject, body string) error {
	message := mail.NewMessage()
	message.SetHeader("From", m.from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)
	message.SetBody("text/plain", body)

	dialer := mail.NewDialer(m.host, m.port, m.from, m.password)
	if err := dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}
