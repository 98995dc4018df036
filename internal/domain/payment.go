package domain

import (
	"context"
	"time"
)

// PaymentStatus is the lifecycle state of a payment record.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// Flat event pricing in whole currency units. Policy constants, not
// configurable per event.
const (
	PriceSingle     int64 = 20
	PriceWithFriend int64 = 40
)

// PaymentTypeRegisterEvent tags payments created by event registration.
const PaymentTypeRegisterEvent = "Register Event"

// Payment is the billing unit covering one main registrant and optionally
// one invited friend ("transaction" in the API).
// swagger:model Payment
type Payment struct {
	ID                string        `json:"id"`
	UserID            string        `json:"user_id"`
	EventID           string        `json:"event_id"`
	ParticipantID     string        `json:"participant_id"`
	SubParticipantIDs []string      `json:"sub_participant_ids,omitempty"`
	InvitedUserID     string        `json:"invited_user_id,omitempty"`
	Type              string        `json:"type"`
	Amount            int64         `json:"amount"` // whole currency units
	Status            PaymentStatus `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// AmountCents returns the payment amount in minor currency units, the unit
// the payment processor expects.
func (p *Payment) AmountCents() int64 {
	return p.Amount * 100
}

// PaymentRepository defines storage operations for payment records.
type PaymentRepository interface {
	GetByID(ctx context.Context, id string) (*Payment, error)
	// MarkPaid atomically swaps status unpaid -> paid. Returns false when the
	// payment was already paid; callers must then skip downstream effects.
	MarkPaid(ctx context.Context, id string) (swapped bool, err error)
	// GetPaidByEventAndUser returns the user's paid payment for the event,
	// used to size a cancellation voucher. ErrPaymentNotFound when absent.
	GetPaidByEventAndUser(ctx context.Context, eventID, userID string) (*Payment, error)
}

// PaymentInput carries the PUT /pay request fields.
type PaymentInput struct {
	TokenID           string
	StripeCallback    bool // client reports stripe handled the flow already
	AccountHolderName string
	SEPAForm          bool
	CreditCardName    string
	AccountOnly       bool // bypass payment (admin-granted free registration)
	CouponCode        string
}

// PaymentInitiation is what the client needs to complete a payment, or the
// confirmation result when a voucher covered the full amount.
type PaymentInitiation struct {
	FreeRegistration      bool   `json:"free_registration,omitempty"`
	RequiresPaymentAction bool   `json:"requires_payment_action,omitempty"`
	CustomerID            string `json:"customer_id,omitempty"`
	ClientSecret          string `json:"client_secret,omitempty"`
	Method                string `json:"method,omitempty"` // "card" or "directdebit"
	Type                  string `json:"type,omitempty"`   // "setup" for SEPA
	AccountHolderName     string `json:"account_holder_name,omitempty"`
	Email                 string `json:"email,omitempty"`
	TransactionID         string `json:"transaction"`
	AmountDue             int64  `json:"amount_due"` // minor units after voucher
}

// PaymentService drives payment initiation and confirmation.
type PaymentService interface {
	InitiatePayment(ctx context.Context, userID, accountID, paymentID string, input *PaymentInput) (*PaymentInitiation, error)
	// ConfirmPayment marks the payment paid and runs post-payment effects.
	// Idempotent: a second call for the same payment reports alreadyPaid and
	// performs no effects.
	ConfirmPayment(ctx context.Context, userID, accountID, locale, paymentID string) (alreadyPaid bool, err error)
}
