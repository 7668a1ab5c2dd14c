package service

import (
	"context"
	"fmt"

	"carrental-backend/internal/config"
	"carrental-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(cfg config.EmailConfig) EmailService {
	return &emailService{
		apiKey:    cfg.APIKey,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

func (s *emailService) send(ctx context.Context, to, toName, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	logger.ExternalServiceCall("sendgrid", "send", "to", to, "subject", subject)
	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	logger.ExternalServiceResult("sendgrid", "send", err, "to", to)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendBookingCreated(ctx context.Context, email, name string, bookingID int64, carName string) error {
	subject := fmt.Sprintf("Booking #%d received", bookingID)
	body := fmt.Sprintf("Hello %s,\n\nWe received your booking #%d for %s. Please confirm it by paying the advance to secure your reservation.\n\nThe Car Rental Team", name, bookingID, carName)
	return s.send(ctx, email, name, subject, body)
}

func (s *emailService) SendBookingConfirmed(ctx context.Context, email, name string, bookingID int64, advanceCents int64) error {
	subject := fmt.Sprintf("Booking #%d confirmed", bookingID)
	body := fmt.Sprintf("Hello %s,\n\nYour advance payment of %s for booking #%d was received. Our staff will review and approve your booking shortly.\n\nThe Car Rental Team", name, formatCents(advanceCents), bookingID)
	return s.send(ctx, email, name, subject, body)
}

func (s *emailService) SendBookingApproved(ctx context.Context, email, name string, bookingID int64) error {
	subject := fmt.Sprintf("Booking #%d approved", bookingID)
	body := fmt.Sprintf("Hello %s,\n\nYour booking #%d has been approved. Please visit us on your pickup date to collect the vehicle.\n\nThe Car Rental Team", name, bookingID)
	return s.send(ctx, email, name, subject, body)
}

func (s *emailService) SendBookingRejected(ctx context.Context, email, name string, bookingID int64, reason string, refundCents int64) error {
	subject := fmt.Sprintf("Booking #%d rejected", bookingID)
	body := fmt.Sprintf("Hello %s,\n\nUnfortunately your booking #%d was rejected.\n\nReason: %s\n\nYour advance of %s will be refunded.\n\nThe Car Rental Team", name, bookingID, reason, formatCents(refundCents))
	return s.send(ctx, email, name, subject, body)
}

func (s *emailService) SendReturnSettlement(ctx context.Context, email, name string, bookingID, finalDueCents int64) error {
	subject := fmt.Sprintf("Booking #%d return settlement", bookingID)
	var body string
	if finalDueCents > 0 {
		body = fmt.Sprintf("Hello %s,\n\nThank you for returning the vehicle for booking #%d. Your outstanding balance is %s.\n\nThe Car Rental Team", name, bookingID, formatCents(finalDueCents))
	} else {
		body = fmt.Sprintf("Hello %s,\n\nThank you for returning the vehicle for booking #%d. Your booking is fully settled.\n\nThe Car Rental Team", name, bookingID)
	}
	return s.send(ctx, email, name, subject, body)
}

func (s *emailService) SendFinalPaymentReminder(ctx context.Context, email, name string, bookingID, finalDueCents int64) error {
	subject := fmt.Sprintf("Payment reminder for booking #%d", bookingID)
	body := fmt.Sprintf("Hello %s,\n\nThis is a reminder that booking #%d has an outstanding balance of %s.\n\nThe Car Rental Team", name, bookingID, formatCents(finalDueCents))
	return s.send(ctx, email, name, subject, body)
}

func (s *emailService) SendOpsSummary(ctx context.Context, email, subject, body string) error {
	return s.send(ctx, email, "Operations", subject, body)
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
