package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"barhopregistration/internal/domain"
)

const inviteTokenExpiry = 2 * time.Hour

// PaymentConfig carries the environment-dependent knobs of the payment flow.
type PaymentConfig struct {
	ClientURL        string
	AdminClientURL   string
	AdminAccountName string
	Location         *time.Location
}

type paymentService struct {
	paymentRepo domain.PaymentRepository
	regRepo     domain.RegistrationRepository
	eventRepo   domain.EventRepository
	userRepo    domain.UserRepository
	accountRepo domain.AccountRepository
	processor   domain.PaymentProcessor
	emails      domain.EmailService
	tokens      domain.TokenIssuer
	cfg         PaymentConfig
	logger      *slog.Logger
	now         func() time.Time
}

// NewPaymentService wires the payment flow: initiation against the payment
// processor and confirmation with its post-payment effects.
func NewPaymentService(
	paymentRepo domain.PaymentRepository,
	regRepo domain.RegistrationRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	accountRepo domain.AccountRepository,
	processor domain.PaymentProcessor,
	emails domain.EmailService,
	tokens domain.TokenIssuer,
	cfg PaymentConfig,
	logger *slog.Logger,
) domain.PaymentService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &paymentService{
		paymentRepo: paymentRepo,
		regRepo:     regRepo,
		eventRepo:   eventRepo,
		userRepo:    userRepo,
		accountRepo: accountRepo,
		processor:   processor,
		emails:      emails,
		tokens:      tokens,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *paymentService) InitiatePayment(ctx context.Context, userID, accountID, paymentID string, input *domain.PaymentInput) (*domain.PaymentInitiation, error) {
	if input == nil {
		input = &domain.PaymentInput{}
	}
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if payment.Status == domain.PaymentPaid {
		return nil, fmt.Errorf("%w: payment already completed", domain.ErrInvalidInput)
	}

	amountDue := payment.AmountCents() - s.couponDiscount(ctx, input.CouponCode)
	if amountDue < 0 {
		amountDue = 0
	}

	// Admin-granted free registrations skip the event gate entirely; the
	// registration was vetted by whoever granted the bypass.
	if !input.AccountOnly {
		if err := s.checkEventOpen(ctx, payment.EventID); err != nil {
			return nil, err
		}
	}

	// Nothing left to charge: fold straight into the confirmation flow.
	if amountDue == 0 || input.AccountOnly || input.StripeCallback {
		locale := ""
		if u, err := s.userRepo.GetByID(ctx, userID); err == nil {
			locale = u.Locale
		}
		if _, err := s.ConfirmPayment(ctx, userID, accountID, locale, paymentID); err != nil {
			return nil, err
		}
		return &domain.PaymentInitiation{
			FreeRegistration: amountDue == 0,
			TransactionID:    payment.ID,
			AmountDue:        amountDue,
		}, nil
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	customerID, err := s.resolveCustomer(ctx, accountID, user, input.TokenID)
	if err != nil {
		return nil, err
	}

	if input.SEPAForm {
		intent, err := s.processor.CreateSEPASetupIntent(ctx, customerID)
		if err != nil {
			return nil, err
		}
		return &domain.PaymentInitiation{
			RequiresPaymentAction: true,
			CustomerID:            customerID,
			ClientSecret:          intent.ClientSecret,
			Method:                "directdebit",
			Type:                  "setup",
			AccountHolderName:     input.AccountHolderName,
			Email:                 user.Email,
			TransactionID:         payment.ID,
			AmountDue:             amountDue,
		}, nil
	}

	// The payment ID doubles as the idempotency key: a retried request can
	// never open a second intent for the same payment.
	intent, err := s.processor.CreateCardPaymentIntent(ctx, customerID, amountDue, payment.ID)
	if err != nil {
		return nil, err
	}
	return &domain.PaymentInitiation{
		RequiresPaymentAction: true,
		CustomerID:            customerID,
		ClientSecret:          intent.ClientSecret,
		Method:                "card",
		TransactionID:         payment.ID,
		AmountDue:             amountDue,
	}, nil
}

func (s *paymentService) ConfirmPayment(ctx context.Context, userID, accountID, locale, paymentID string) (bool, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return false, err
	}
	if payment.UserID != userID {
		return false, domain.ErrForbidden
	}

	swapped, err := s.paymentRepo.MarkPaid(ctx, payment.ID)
	if err != nil {
		return false, fmt.Errorf("mark paid: %w", err)
	}
	if !swapped {
		return true, nil
	}

	// Past this point the money is captured. Effect failures are logged but
	// never surfaced as a confirmation failure.
	s.runPostPaymentEffects(ctx, payment, locale)
	return false, nil
}

// couponDiscount resolves a coupon code to a discount in minor units.
// Unknown or invalid codes are ignored rather than failing the payment.
func (s *paymentService) couponDiscount(ctx context.Context, code string) int64 {
	if code == "" {
		return 0
	}
	coupon, err := s.processor.GetCoupon(ctx, code)
	if err != nil {
		s.logger.Warn("coupon lookup failed", "code", code, "error", err)
		return 0
	}
	if !coupon.Valid {
		s.logger.Info("ignoring invalid coupon", "code", code)
		return 0
	}
	return coupon.AmountOffCents
}

// checkEventOpen rejects payment against canceled, past, or full events.
func (s *paymentService) checkEventOpen(ctx context.Context, eventID string) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.IsCanceled {
		return domain.ErrEventCanceled
	}
	if event.HeldBefore(s.now(), s.cfg.Location) {
		return domain.ErrEventAlreadyHeld
	}
	registered, err := s.eventRepo.CountRegistered(ctx, eventID)
	if err != nil {
		return fmt.Errorf("count registered: %w", err)
	}
	if registered >= event.TotalCapacity() {
		return domain.ErrEventFull
	}
	return nil
}

// resolveCustomer returns the processor customer for the account, creating
// and persisting one on first use.
func (s *paymentService) resolveCustomer(ctx context.Context, accountID string, user *domain.User, cardToken string) (string, error) {
	var account *domain.Account
	if accountID != "" {
		var err error
		account, err = s.accountRepo.GetByID(ctx, accountID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("get account: %w", err)
		}
		if account != nil && account.StripeCustomerID != "" {
			return account.StripeCustomerID, nil
		}
	}
	customer, err := s.processor.CreateCustomer(ctx, user.Email, user.Name, cardToken)
	if err != nil {
		return "", err
	}
	if account != nil {
		if err := s.accountRepo.SetStripeCustomerID(ctx, account.ID, customer.ID); err != nil {
			s.logger.Error("failed to persist processor customer", "account_id", account.ID, "error", err)
		}
	}
	return customer.ID, nil
}

func (s *paymentService) runPostPaymentEffects(ctx context.Context, payment *domain.Payment, locale string) {
	event, err := s.eventRepo.GetByID(ctx, payment.EventID)
	if err != nil {
		s.logger.Error("post-payment: event lookup failed", "event_id", payment.EventID, "error", err)
		return
	}
	eventDate := event.Date.In(s.cfg.Location).Format("02 Jan 2006")

	s.activateRegistration(ctx, payment.ParticipantID)
	if err := s.userRepo.SetOnboarded(ctx, payment.UserID); err != nil {
		s.logger.Error("post-payment: set onboarded failed", "user_id", payment.UserID, "error", err)
	}

	mainUser, err := s.userRepo.GetByID(ctx, payment.UserID)
	if err != nil {
		s.logger.Error("post-payment: user lookup failed", "user_id", payment.UserID, "error", err)
	} else {
		if locale == "" {
			locale = mainUser.Locale
		}
		data := &domain.RegistrationConfirmedEmailData{
			Email:     mainUser.Email,
			Name:      mainUser.FirstName,
			EventName: event.Name,
			EventDate: eventDate,
			ButtonURL: s.cfg.ClientURL,
			Locale:    locale,
		}
		if err := s.emails.SendRegistrationConfirmed(ctx, data); err != nil {
			s.logger.Error("post-payment: confirmation email failed", "to", mainUser.Email, "error", err)
		}
	}

	for _, subID := range payment.SubParticipantIDs {
		s.activateRegistration(ctx, subID)
	}
	if payment.InvitedUserID != "" {
		s.notifyFriend(ctx, payment.InvitedUserID, event, eventDate)
	}

	s.maybeWarnCapacity(ctx, event)
}

// activateRegistration moves a registration from process to registered.
func (s *paymentService) activateRegistration(ctx context.Context, regID string) {
	if regID == "" {
		return
	}
	moved, err := s.regRepo.UpdateStatus(ctx, regID, domain.StatusProcess, domain.StatusRegistered)
	if err != nil {
		s.logger.Error("post-payment: status update failed", "registration_id", regID, "error", err)
		return
	}
	if !moved {
		s.logger.Warn("post-payment: registration not in process status", "registration_id", regID)
	}
}

// notifyFriend emails the invited friend. A friend without an account of
// their own gets one provisioned plus a join link with a time-limited token;
// a friend who already had an account just gets the confirmation email.
func (s *paymentService) notifyFriend(ctx context.Context, friendUserID string, event *domain.Event, eventDate string) {
	friend, err := s.userRepo.GetByID(ctx, friendUserID)
	if err != nil {
		s.logger.Error("post-payment: friend lookup failed", "user_id", friendUserID, "error", err)
		return
	}

	if friend.DefaultAccountID != nil {
		data := &domain.RegistrationConfirmedEmailData{
			Email:     friend.Email,
			Name:      friend.FirstName,
			EventName: event.Name,
			EventDate: eventDate,
			ButtonURL: s.cfg.ClientURL,
			Locale:    friend.Locale,
		}
		if err := s.emails.SendRegistrationConfirmed(ctx, data); err != nil {
			s.logger.Error("post-payment: friend confirmation email failed", "to", friend.Email, "error", err)
		}
		return
	}

	accountID, err := s.ensureFriendAccount(ctx, friend)
	if err != nil {
		s.logger.Error("post-payment: friend account provisioning failed", "user_id", friend.ID, "error", err)
		return
	}
	token, err := s.tokens.Issue(friend.ID, accountID, []string{domain.PermissionOwner}, inviteTokenExpiry)
	if err != nil {
		s.logger.Error("post-payment: invite token issuance failed", "user_id", friend.ID, "error", err)
		return
	}
	data := &domain.JoinInvitationEmailData{
		Email:     friend.Email,
		Name:      friend.FirstName,
		EventName: event.Name,
		EventDate: eventDate,
		ResetURL:  s.cfg.ClientURL + "/resetpassword?token=" + token,
		Locale:    friend.Locale,
	}
	if err := s.emails.SendJoinInvitation(ctx, data); err != nil {
		s.logger.Error("post-payment: join invitation failed", "to", friend.Email, "error", err)
	}
}

func (s *paymentService) ensureFriendAccount(ctx context.Context, friend *domain.User) (string, error) {
	if friend.DefaultAccountID != nil {
		return *friend.DefaultAccountID, nil
	}
	now := s.now()
	account := &domain.Account{
		Name:       friend.Name,
		Active:     true,
		OwnerEmail: friend.Email,
		OwnerName:  friend.Name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return "", fmt.Errorf("create account: %w", err)
	}
	if err := s.accountRepo.AttachUser(ctx, account.ID, friend.ID, domain.PermissionOwner); err != nil {
		return "", fmt.Errorf("attach user: %w", err)
	}
	if err := s.userRepo.SetDefaultAccount(ctx, friend.ID, account.ID); err != nil {
		return "", fmt.Errorf("set default account: %w", err)
	}
	return account.ID, nil
}

// maybeWarnCapacity emails the administrator group once an event crosses 90%
// of capacity. The warning fires at most once per event; the latch in the
// events table arbitrates concurrent confirmations.
func (s *paymentService) maybeWarnCapacity(ctx context.Context, event *domain.Event) {
	capacity := event.TotalCapacity()
	if capacity == 0 {
		return
	}
	registered, err := s.eventRepo.CountRegistered(ctx, event.ID)
	if err != nil {
		s.logger.Error("capacity warning: count failed", "event_id", event.ID, "error", err)
		return
	}
	if registered*10 < capacity*9 {
		return
	}

	set, err := s.eventRepo.SetCapacityWarningSent(ctx, event.ID)
	if err != nil {
		s.logger.Error("capacity warning: latch update failed", "event_id", event.ID, "error", err)
		return
	}
	if !set {
		return
	}

	admins, err := s.accountRepo.ListUsersByAccountName(ctx, s.cfg.AdminAccountName)
	if err != nil {
		s.logger.Error("capacity warning: admin lookup failed", "account", s.cfg.AdminAccountName, "error", err)
		return
	}
	startTime := event.StartTime
	if startTime == "" {
		startTime = domain.DefaultStartTime
	}
	for _, admin := range admins {
		data := &domain.CapacityWarningEmailData{
			Email:        admin.Email,
			Name:         admin.FirstName,
			EventName:    event.Name,
			EventDate:    event.Date.In(s.cfg.Location).Format("02 Jan 2006"),
			EventTime:    startTime,
			City:         event.City,
			Current:      registered,
			Capacity:     capacity,
			Available:    capacity - registered,
			Percent:      registered * 100 / capacity,
			DashboardURL: s.cfg.AdminClientURL,
		}
		if err := s.emails.SendCapacityWarning(ctx, data); err != nil {
			s.logger.Error("capacity warning: email failed", "to", admin.Email, "error", err)
		}
	}
	s.logger.Info("capacity warning dispatched",
		"event_id", event.ID, "registered", registered, "capacity", capacity, "admins", len(admins))
}
