package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"barhopregistration/internal/domain"
)

type cancellationService struct {
	regRepo     domain.RegistrationRepository
	paymentRepo domain.PaymentRepository
	eventRepo   domain.EventRepository
	userRepo    domain.UserRepository
	processor   domain.PaymentProcessor
	emails      domain.EmailService
	location    *time.Location
	logger      *slog.Logger
	now         func() time.Time
}

// NewCancellationService wires user-initiated cancellation (with the 24 hour
// voucher window) and the admin team-cancel operation.
func NewCancellationService(
	regRepo domain.RegistrationRepository,
	paymentRepo domain.PaymentRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	processor domain.PaymentProcessor,
	emails domain.EmailService,
	location *time.Location,
	logger *slog.Logger,
) domain.CancellationService {
	if location == nil {
		location = time.UTC
	}
	return &cancellationService{
		regRepo:     regRepo,
		paymentRepo: paymentRepo,
		eventRepo:   eventRepo,
		userRepo:    userRepo,
		processor:   processor,
		emails:      emails,
		location:    location,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *cancellationService) Cancel(ctx context.Context, userID, locale, eventID string) (*domain.CancellationResult, error) {
	if eventID == "" {
		return nil, fmt.Errorf("%w: event id is required", domain.ErrInvalidInput)
	}
	reg, err := s.regRepo.GetActiveByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	hoursUntil := event.StartsAt(s.location).Sub(now).Hours()

	cancelled, err := s.regRepo.MarkCanceled(ctx, reg.ID, now)
	if err != nil {
		return nil, fmt.Errorf("mark canceled: %w", err)
	}
	if !cancelled {
		return nil, domain.ErrRegistrationNotFound
	}

	result := &domain.CancellationResult{
		Cancelled:       true,
		HoursUntilEvent: hoursUntil,
	}

	// Voucher only when cancelling strictly more than 24h ahead. Voucher
	// creation failure never unwinds the cancellation itself.
	var voucherAmount int64
	if hoursUntil > domain.VoucherCutoffHours {
		voucherAmount = s.paidAmount(ctx, eventID, userID)
		voucher, err := s.processor.CreateVoucher(ctx, voucherAmount*100, "cancel-"+reg.ID)
		if err != nil {
			s.logger.Error("voucher creation failed", "registration_id", reg.ID, "error", err)
		} else {
			result.VoucherIssued = true
			result.VoucherCode = voucher.Code
		}
	}

	s.sendCancellationEmail(ctx, userID, locale, event, result, voucherAmount)
	return result, nil
}

// paidAmount returns what the user actually paid for the event, falling back
// to the single price when no paid payment is on record.
func (s *cancellationService) paidAmount(ctx context.Context, eventID, userID string) int64 {
	payment, err := s.paymentRepo.GetPaidByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrPaymentNotFound) {
			s.logger.Warn("paid payment lookup failed", "event_id", eventID, "user_id", userID, "error", err)
		}
		return domain.PriceSingle
	}
	return payment.Amount
}

func (s *cancellationService) sendCancellationEmail(ctx context.Context, userID, locale string, event *domain.Event, result *domain.CancellationResult, voucherAmount int64) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("cancellation: user lookup failed", "user_id", userID, "error", err)
		return
	}
	if locale == "" {
		locale = user.Locale
	}
	data := &domain.CancellationEmailData{
		Email:         user.Email,
		Name:          user.FirstName,
		EventName:     event.Name,
		VoucherIssued: result.VoucherIssued,
		VoucherCode:   result.VoucherCode,
		VoucherAmount: voucherAmount,
		Locale:        locale,
	}
	if err := s.emails.SendCancellation(ctx, data); err != nil {
		s.logger.Error("cancellation: email failed", "to", user.Email, "error", err)
	}
}

// CancelTeam cancels every registration tied to the payment record. No
// vouchers are issued; this is the admin escape hatch.
func (s *cancellationService) CancelTeam(ctx context.Context, paymentID string) (int, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return 0, err
	}
	event, err := s.eventRepo.GetByID(ctx, payment.EventID)
	if err != nil {
		return 0, err
	}

	now := s.now()
	count := 0
	regIDs := append([]string{payment.ParticipantID}, payment.SubParticipantIDs...)
	for _, regID := range regIDs {
		if regID == "" {
			continue
		}
		reg, err := s.regRepo.GetByID(ctx, regID)
		if err != nil {
			s.logger.Error("team cancel: registration lookup failed", "registration_id", regID, "error", err)
			continue
		}
		cancelled, err := s.regRepo.MarkCanceled(ctx, regID, now)
		if err != nil {
			s.logger.Error("team cancel: mark canceled failed", "registration_id", regID, "error", err)
			continue
		}
		if !cancelled {
			continue
		}
		count++

		data := &domain.CancellationEmailData{
			Email:     reg.Email,
			Name:      reg.FirstName,
			EventName: event.Name,
		}
		if err := s.emails.SendCancellation(ctx, data); err != nil {
			s.logger.Error("team cancel: email failed", "to", reg.Email, "error", err)
		}
	}
	s.logger.Info("team canceled", "payment_id", paymentID, "registrations", count)
	return count, nil
}
