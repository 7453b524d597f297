package services

import (
	"fmt"

	"reminderd/internal/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer is the outbound send capability. The dispatcher depends on this
// interface so tests can substitute a fake transport.
type Mailer interface {
	Send(toName, toEmail, subject, plainContent, htmlContent string) error
}

// EmailService sends mail through SendGrid.
type EmailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailService(cfg config.Config) *EmailService {
	return &EmailService{
		client:    sendgrid.NewSendClient(cfg.SendGridAPIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

// Send delivers a single email and treats any 4xx/5xx response as a failure.
func (s *EmailService) Send(toName, toEmail, subject, plainContent, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)

	message := mail.NewSingleEmail(from, subject, to, plainContent, htmlContent)

	response, err := s.client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email to %s: %d", toEmail, response.StatusCode)
	}
	return nil
}
