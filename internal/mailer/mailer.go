// Package mailer delivers one-time verification codes. The email provider is
// an external collaborator; the repository only needs send-or-fail semantics.
package mailer

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends a one-time verification code to an address.
type Mailer interface {
	SendOTP(ctx context.Context, email, code string) error
}

// SendGridMailer delivers OTP mail through the SendGrid API.
type SendGridMailer struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewSendGrid(apiKey, fromEmail, fromName string) *SendGridMailer {
	return &SendGridMailer{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (m *SendGridMailer) SendOTP(ctx context.Context, email, code string) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail("", email)
	subject := fmt.Sprintf("%s is your verification code", code)
	plain := fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code)
	html := fmt.Sprintf(
		`<div style="font-family: Arial, sans-serif; padding: 20px;">`+
			`<h2>%s Verification</h2><p>Your verification code is:</p>`+
			`<h1 style="letter-spacing: 5px;">%s</h1>`+
			`<p>This code expires in 10 minutes. If you didn't request it, ignore this email.</p></div>`,
		m.fromName, code)

	message := mail.NewSingleEmail(from, subject, to, plain, html)
	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("while sending mail through SendGrid: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("non-2XX response while sending mail through SendGrid: %d %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogMailer writes the code to the process log instead of sending mail. Used
// in development when no SendGrid key is configured.
type LogMailer struct{}

func NewLog() *LogMailer { return &LogMailer{} }

func (LogMailer) SendOTP(ctx context.Context, email, code string) error {
	log.Printf("mailer: OTP for %s: %s", email, code)
	return nil
}
