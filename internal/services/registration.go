package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"barhopregistration/internal/domain"
)

type registrationService struct {
	eventRepo domain.EventRepository
	regRepo   domain.RegistrationRepository
	userRepo  domain.UserRepository
	hasher    domain.PasswordHasher
}

// NewRegistrationService creates a RegistrationService with the given
// repositories and password hasher (used for provisioned friend users).
func NewRegistrationService(
	eventRepo domain.EventRepository,
	regRepo domain.RegistrationRepository,
	userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
) domain.RegistrationService {
	return &registrationService{
		eventRepo: eventRepo,
		regRepo:   regRepo,
		userRepo:  userRepo,
		hasher:    hasher,
	}
}

func (s *registrationService) Register(ctx context.Context, userID string, input *domain.RegisterTeamInput) (string, error) {
	if err := validateRegisterInput(input); err != nil {
		return "", err
	}

	// Fail fast on full or canceled events. The authoritative check happens
	// again inside CreateTeam under the event row lock.
	event, err := s.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get event: %w", err)
	}
	if event.IsCanceled {
		return "", domain.ErrEventCanceled
	}
	registered, err := s.eventRepo.CountRegistered(ctx, input.EventID)
	if err != nil {
		return "", fmt.Errorf("count registered: %w", err)
	}
	if registered >= event.TotalCapacity() {
		return "", domain.ErrEventFull
	}

	mainUser, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}

	now := time.Now()
	var regs []*domain.Registration
	var invitedUserID string

	if input.Friend != nil && input.Friend.Email != "" {
		if strings.EqualFold(input.MainUser.Email, input.Friend.Email) {
			return "", domain.ErrDuplicateParticipant
		}
		friendUser, err := s.resolveFriendUser(ctx, input.Friend, now)
		if err != nil {
			return "", err
		}
		invitedUserID = friendUser.ID
		regs = append(regs, newRegistration(input.EventID, friendUser.ID, input.Friend, false, now))
	}
	regs = append(regs, newRegistration(input.EventID, mainUser.ID, &input.MainUser, true, now))

	// The main user's questionnaire answers also update their profile.
	if err := s.userRepo.UpdateProfile(ctx, mainUser.ID, input.MainUser.Profile); err != nil {
		return "", fmt.Errorf("update user profile: %w", err)
	}

	amount := domain.PriceSingle
	if invitedUserID != "" {
		amount = domain.PriceWithFriend
	}
	payment := &domain.Payment{
		UserID:        mainUser.ID,
		EventID:       input.EventID,
		InvitedUserID: invitedUserID,
		Type:          domain.PaymentTypeRegisterEvent,
		Amount:        amount,
		Status:        domain.PaymentUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.regRepo.CreateTeam(ctx, input.EventID, regs, payment); err != nil {
		if errors.Is(err, domain.ErrEventFull) || errors.Is(err, domain.ErrEventCanceled) || errors.Is(err, domain.ErrNotFound) {
			return "", err
		}
		return "", fmt.Errorf("create team: %w", err)
	}
	return payment.ID, nil
}

// resolveFriendUser reuses an existing user for the friend's email or
// provisions an invited one with a random throwaway password.
func (s *registrationService) resolveFriendUser(ctx context.Context, friend *domain.ParticipantInput, now time.Time) (*domain.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, friend.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("get friend user: %w", err)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	password, err := randomPassword()
	if err != nil {
		return nil, fmt.Errorf("generate password: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{
		Email:        friend.Email,
		FirstName:    friend.FirstName,
		LastName:     friend.LastName,
		Name:         friend.FirstName + " " + friend.LastName,
		IsInvited:    true,
		PasswordHash: hash,
		PasswordSalt: salt,
		Profile:      friend.Profile,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create friend user: %w", err)
	}
	return user, nil
}

// randomPassword yields a throwaway initial password for an invited friend.
// The friend only ever sets a real one through the reset link in their email.
func randomPassword() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func newRegistration(eventID, userID string, p *domain.ParticipantInput, isMain bool, now time.Time) *domain.Registration {
	return &domain.Registration{
		EventID:     eventID,
		UserID:      userID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		Gender:      p.Gender,
		DateOfBirth: p.DateOfBirth,
		Children:    p.Children,
		IsMainUser:  isMain,
		Profile:     p.Profile,
		Status:      domain.StatusProcess,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func validateRegisterInput(input *domain.RegisterTeamInput) error {
	if input == nil {
		return fmt.Errorf("%w: missing body", domain.ErrInvalidInput)
	}
	if input.EventID == "" {
		return fmt.Errorf("%w: event id is required", domain.ErrInvalidInput)
	}
	if input.MainUser.Email == "" || input.MainUser.FirstName == "" || input.MainUser.LastName == "" {
		return fmt.Errorf("%w: main participant name and email are required", domain.ErrInvalidInput)
	}
	if input.Friend != nil && input.Friend.Email != "" {
		if input.Friend.FirstName == "" || input.Friend.LastName == "" {
			return fmt.Errorf("%w: friend name is required", domain.ErrInvalidInput)
		}
	}
	return nil
}
