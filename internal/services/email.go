package services

import (
	"context"
	"fmt"
	"log/slog"

	"barhopregistration/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and
// template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendRegistrationConfirmed sends the "event_registered" confirmation email.
func (s *emailService) SendRegistrationConfirmed(ctx context.Context, data *domain.RegistrationConfirmedEmailData) error {
	if data == nil {
		return fmt.Errorf("registration confirmed data is nil")
	}
	if err := s.send("event_registered", data.Locale, data.Email, data); err != nil {
		return err
	}
	s.logger.Info("registration confirmation sent", "to", data.Email)
	return nil
}

// SendJoinInvitation sends the "join_invite" email with the reset-style link.
func (s *emailService) SendJoinInvitation(ctx context.Context, data *domain.JoinInvitationEmailData) error {
	if data == nil {
		return fmt.Errorf("join invitation data is nil")
	}
	if err := s.send("join_invite", data.Locale, data.Email, data); err != nil {
		return err
	}
	s.logger.Info("join invitation sent", "to", data.Email)
	return nil
}

// SendCancellation picks the voucher or plain cancellation template.
func (s *emailService) SendCancellation(ctx context.Context, data *domain.CancellationEmailData) error {
	if data == nil {
		return fmt.Errorf("cancellation data is nil")
	}
	templateName := "cancellation"
	if data.VoucherIssued {
		templateName = "cancellation_voucher"
	}
	if err := s.send(templateName, data.Locale, data.Email, data); err != nil {
		return err
	}
	s.logger.Info("cancellation email sent", "to", data.Email, "voucher", data.VoucherIssued)
	return nil
}

// SendCapacityWarning sends the admin capacity warning email.
func (s *emailService) SendCapacityWarning(ctx context.Context, data *domain.CapacityWarningEmailData) error {
	if data == nil {
		return fmt.Errorf("capacity warning data is nil")
	}
	// Admin dashboards are English-only.
	if err := s.send("capacity_warning", "en", data.Email, data); err != nil {
		return err
	}
	s.logger.Info("capacity warning sent", "to", data.Email)
	return nil
}

func (s *emailService) send(templateName, locale, to string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(templateName, locale, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", templateName, err)
	}
	if err := s.mailer.Send(to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send %s email: %w", templateName, err)
	}
	return nil
}
