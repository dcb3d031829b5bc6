package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
)

// Mailer sends emails.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

type smtpMailer struct {
	host     string
	port     string
	from     string
	username string
	password string
}

// NewFromEnv returns an SMTP mailer, or a logging no-op when SMTP_HOST
// is unset so the rest of the app keeps working without mail config.
func NewFromEnv() Mailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Println("SMTP_HOST not set, email delivery disabled")
		return noopMailer{}
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	return &smtpMailer{
		host:     host,
		port:     port,
		from:     os.Getenv("SMTP_FROM"),
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
	}
}

func (m *smtpMailer) SendEmail(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}

type noopMailer struct{}

func (noopMailer) SendEmail(to, subject, _ string) error {
	log.Printf("email delivery disabled, dropping %q to %s", subject, to)
	return nil
}
