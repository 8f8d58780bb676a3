package services

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"listing-market/internal/config"
	"listing-market/internal/logger"
)

// EmailService sends transactional email through SendGrid.
// All sends are best-effort: callers log failures and move on.
type EmailService struct {
	client      *sendgrid.Client
	fromName    string
	fromAddress string
	frontendURL string
}

// NewEmailService creates a new EmailService
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		client:      sendgrid.NewSendClient(cfg.Email.SendGridAPIKey),
		fromName:    cfg.Email.FromName,
		fromAddress: cfg.Email.FromAddress,
		frontendURL: cfg.App.FrontendURL,
	}
}

// SendListingSubmitted notifies a seller their listing entered moderation
func (s *EmailService) SendListingSubmitted(toEmail, listingAddress string) error {
	from := mail.NewEmail(s.fromName, s.fromAddress)
	to := mail.NewEmail("", toEmail)
	subject := "Your listing has been submitted"

	plain := fmt.Sprintf(
		"Your listing for %s has been submitted for moderation. Our team will review it within 24-48 hours.",
		listingAddress,
	)
	html := s.listingSubmittedHTML(listingAddress)

	msg := mail.NewSingleEmail(from, subject, to, plain, html)
	resp, err := s.client.Send(msg)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status %d - %s", resp.StatusCode, resp.Body)
	}

	logger.Log.Infof("Listing-submitted email sent to %s", toEmail)
	return nil
}

func (s *EmailService) listingSubmittedHTML(listingAddress string) string {
	return fmt.Sprintf(`
    <!DOCTYPE html>
    <html>
      <head>
        <meta charset="utf-8">
        <meta name="viewport" content="width=device-width, initial-scale=1.0">
      </head>
      <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
        <h1 style="color: #16a34a;">Listing Submitted!</h1>
        <p>Your listing for <strong>%s</strong> has been submitted for moderation.</p>
        <p>Our team will review it within 24-48 hours. You'll receive an email notification once it's approved.</p>
        <a href="%s/sell/listings" style="display: inline-block; margin-top: 20px; padding: 12px 24px; background-color: #2563eb; color: white; text-decoration: none; border-radius: 5px;">
          View My Listings
        </a>
        <p style="margin-top: 30px; font-size: 14px; color: #666;">
          Best regards,<br>
          The Team
        </p>
      </body>
    </html>
  `, listingAddress, s.frontendURL)
}
