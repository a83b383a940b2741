// Package mailer delivers one-time codes to users. The auth module depends on
// the Mailer interface only; implementations here cover SMTP for real
// deployments and a console fallback for local runs.
package mailer

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

type Mailer interface {
	SendOTP(ctx context.Context, email, code string) error
}

// SMTPMailer sends the OTP mail through a plain STARTTLS-capable SMTP relay.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	fromName string
}

func NewSMTPMailer(host, port, username, password, fromName string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		fromName: fromName,
	}
}

func (m *SMTPMailer) SendOTP(_ context.Context, email, code string) error {
	from := m.username
	body := strings.Join([]string{
		fmt.Sprintf("From: %s <%s>", m.fromName, from),
		fmt.Sprintf("To: %s", email),
		"Subject: Your OTP Code",
		"",
		fmt.Sprintf("Your verification code is: %s", code),
		"Valid for 5 minutes.",
	}, "\r\n")

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	addr := m.host + ":" + m.port
	if err := smtp.SendMail(addr, auth, from, []string{email}, []byte(body)); err != nil {
		return fmt.Errorf("send otp mail: %w", err)
	}
	return nil
}

// ConsoleMailer logs the code instead of sending it. Dev only: it puts OTP
// codes in the process log, so config validation refuses MAILER=console in
// prod-like environments.
type ConsoleMailer struct{}

func NewConsoleMailer() *ConsoleMailer { return &ConsoleMailer{} }

func (m *ConsoleMailer) SendOTP(_ context.Context, email, code string) error {
	log.Printf("[DEV-EMAIL] otp email=%s code=%s", email, code)
	return nil
}
