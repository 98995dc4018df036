package domain

import "context"

// ProcessorCustomer is the processor-side customer profile.
type ProcessorCustomer struct {
	ID string
}

// ProcessorIntent holds the client-side parameters of a payment or setup
// intent. The client completes the actual money movement with ClientSecret.
type ProcessorIntent struct {
	ID           string
	ClientSecret string
}

// Coupon is a processor-side discount code applied at payment time.
type Coupon struct {
	Code           string
	AmountOffCents int64
	Valid          bool
}

// Voucher is a processor-issued discount code created on cancellation.
// Never persisted locally beyond the email sent to the user.
type Voucher struct {
	Code           string
	AmountOffCents int64
}

// PaymentProcessor is the port to the external payment provider. Charges are
// never performed synchronously; implementations must apply bounded timeouts
// and pass the supplied idempotency keys so retried calls cannot double-apply.
type PaymentProcessor interface {
	CreateCustomer(ctx context.Context, email, name, cardToken string) (*ProcessorCustomer, error)
	CreateCardPaymentIntent(ctx context.Context, customerID string, amountCents int64, idempotencyKey string) (*ProcessorIntent, error)
	CreateSEPASetupIntent(ctx context.Context, customerID string) (*ProcessorIntent, error)
	GetCoupon(ctx context.Context, code string) (*Coupon, error)
	CreateVoucher(ctx context.Context, amountCents int64, idempotencyKey string) (*Voucher, error)
}
