package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// User represents a registered user
// swagger:model User
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Name             string    `json:"name"`
	Locale           string    `json:"locale"` // e.g. "en-US", "de-DE"
	Verified         bool      `json:"verified"`
	IsInvited        bool      `json:"is_invited"`
	Onboarded        bool      `json:"onboarded"`
	DefaultAccountID *string   `json:"default_account,omitempty"`
	PasswordHash     string    `json:"-"`
	PasswordSalt     string    `json:"-"`
	Profile          Profile   `json:"profile"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TokenClaims is what a verified bearer token resolves to.
type TokenClaims struct {
	UserID    string
	AccountID string
	Roles     []string
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for a user. Also used for the
// time-limited reset-style token in friend invitation emails.
type TokenIssuer interface {
	Issue(userID, accountID string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	// UpdateProfile overwrites the user's questionnaire fields.
	UpdateProfile(ctx context.Context, userID string, profile Profile) error
	SetOnboarded(ctx context.Context, userID string) error
	// SetDefaultAccount points the user at a freshly provisioned account.
	SetDefaultAccount(ctx context.Context, userID, accountID string) error
}
