package domain

import (
	"context"
	"time"
)

// RegistrationStatus is the lifecycle state of a registration.
// Legal transitions: process -> registered, process|registered -> canceled.
// There is no transition out of canceled.
type RegistrationStatus string

const (
	StatusProcess    RegistrationStatus = "process"
	StatusRegistered RegistrationStatus = "registered"
	StatusCanceled   RegistrationStatus = "canceled"
)

// CanTransitionTo reports whether moving from s to next is a legal transition.
func (s RegistrationStatus) CanTransitionTo(next RegistrationStatus) bool {
	switch s {
	case StatusProcess:
		return next == StatusRegistered || next == StatusCanceled
	case StatusRegistered:
		return next == StatusCanceled
	default:
		return false
	}
}

// Profile holds the questionnaire fields collected at registration.
type Profile struct {
	RelationshipGoal           string `json:"relationship_goal"`
	KindOfPerson               string `json:"kind_of_person"`
	FeelAroundNewPeople        string `json:"feel_around_new_people"`
	PreferSpendingTime         string `json:"prefer_spending_time"`
	DescribeYouBetter          string `json:"describe_you_better"`
	DescribeRoleInRelationship string `json:"describe_role_in_relationship"`
	LookingFor                 string `json:"looking_for"`
}

// Registration represents one person's enrollment for one event.
// swagger:model Registration
type Registration struct {
	ID          string             `json:"id"`
	EventID     string             `json:"event_id"`
	UserID      string             `json:"user_id"`
	FirstName   string             `json:"first_name"`
	LastName    string             `json:"last_name"`
	Email       string             `json:"email"`
	Gender      string             `json:"gender"`
	DateOfBirth string             `json:"date_of_birth"`
	Children    bool               `json:"children"`
	IsMainUser  bool               `json:"is_main_user"`
	Profile     Profile            `json:"profile"`
	Status      RegistrationStatus `json:"status"`
	IsCancelled bool               `json:"is_cancelled"`
	CancelDate  *time.Time         `json:"cancel_date,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// RegistrationRepository defines storage operations for registrations.
type RegistrationRepository interface {
	// CreateTeam atomically admits a team: it locks the event row, re-checks
	// cancellation and remaining capacity, and inserts the registrations plus
	// their unpaid payment in one transaction. Returns ErrEventFull or
	// ErrEventCanceled when admission fails.
	CreateTeam(ctx context.Context, eventID string, regs []*Registration, payment *Payment) error
	GetByID(ctx context.Context, id string) (*Registration, error)
	// GetActiveByEventAndUser returns the user's registered, non-cancelled
	// registration for the event, or ErrRegistrationNotFound.
	GetActiveByEventAndUser(ctx context.Context, eventID, userID string) (*Registration, error)
	// UpdateStatus performs a guarded transition. Returns false when the row
	// was not in the expected `from` status (no update applied).
	UpdateStatus(ctx context.Context, id string, from, to RegistrationStatus) (bool, error)
	// MarkCanceled sets status=canceled, is_cancelled and the cancel date,
	// unless the registration is already canceled. Returns false in that case.
	MarkCanceled(ctx context.Context, id string, at time.Time) (bool, error)
}

// ParticipantInput carries one participant's fields from the register request.
type ParticipantInput struct {
	FirstName   string
	LastName    string
	Email       string
	Gender      string
	DateOfBirth string
	Children    bool
	Profile     Profile
}

// RegisterTeamInput is the input for RegistrationService.Register.
type RegisterTeamInput struct {
	EventID  string
	MainUser ParticipantInput
	Friend   *ParticipantInput
}

// RegistrationService creates participant records and their unpaid payment.
type RegistrationService interface {
	// Register enrolls the authenticated user (and optionally a friend) for
	// the event and returns the created payment's ID.
	Register(ctx context.Context, userID string, input *RegisterTeamInput) (paymentID string, err error)
}
