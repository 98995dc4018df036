package domain

import (
	"context"
	"time"
)

// Account permission levels.
const (
	PermissionOwner = "owner"
)

// Account is a billing/identity container. Administrator accounts carry a
// well-known configured name and their users receive capacity warnings.
type Account struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Active           bool      `json:"active"`
	OwnerEmail       string    `json:"owner_email"`
	OwnerName        string    `json:"owner_name"`
	StripeCustomerID string    `json:"stripe_customer_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AccountRepository defines the interface for account storage
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	SetStripeCustomerID(ctx context.Context, id, customerID string) error
	// AttachUser links a user to an account with the given permission.
	AttachUser(ctx context.Context, accountID, userID, permission string) error
	// ListUsersByAccountName returns the users whose default account carries
	// the given account name (the administrator group lookup).
	ListUsersByAccountName(ctx context.Context, name string) ([]*User, error)
}
