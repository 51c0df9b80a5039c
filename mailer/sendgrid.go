// Package mailer sends the portal's transactional email through SendGrid
package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

const senderName = "Crime Report Portal"

// SendGrid implements services.Mailer
type SendGrid struct {
	client *sendgrid.Client
	from   string
}

// NewSendGrid creates a mailer sending from the from address
func NewSendGrid(apiKey, from string) *SendGrid {
	return &SendGrid{client: sendgrid.NewSendClient(apiKey), from: from}
}

// Send sends one html email to toEmail
func (m *SendGrid) Send(ctx context.Context, toEmail, toName, subject, html string) error {
	from := mail.NewEmail(senderName, m.from)
	to := mail.NewEmail(toName, toEmail)
	plainText := subject + "\n\nOpen this email in an HTML capable client to see the details."
	message := mail.NewSingleEmail(from, subject, to, plainText, html)

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body, "to", toEmail)
		return fmt.Errorf("sendgrid error: status %d", response.StatusCode)
	}
	zap.S().Infow("email sent successfully", "to", toEmail, "subject", subject)
	return nil
}
