package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/client"

	"barhopregistration/internal/domain"
)

// Config holds configuration for the Stripe payment processor.
type Config struct {
	SecretKey string
	// Timeout bounds every processor call. Defaults to 10s.
	Timeout time.Duration
}

type stripeProcessor struct {
	api     *client.API
	timeout time.Duration
}

// NewStripeProcessor returns a PaymentProcessor backed by Stripe. All calls
// run under a bounded timeout; mutating calls carry idempotency keys so a
// retried request can never double-apply a charge or a voucher.
func NewStripeProcessor(cfg Config) domain.PaymentProcessor {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &stripeProcessor{api: api, timeout: timeout}
}

func (p *stripeProcessor) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, p.timeout)
}

func (p *stripeProcessor) CreateCustomer(ctx context.Context, email, name, cardToken string) (*domain.ProcessorCustomer, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx
	if cardToken != "" {
		params.Source = stripe.String(cardToken)
	}
	c, err := p.api.Customers.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: create customer: %v", domain.ErrPaymentProcessor, err)
	}
	return &domain.ProcessorCustomer{ID: c.ID}, nil
}

func (p *stripeProcessor) CreateCardPaymentIntent(ctx context.Context, customerID string, amountCents int64, idempotencyKey string) (*domain.ProcessorIntent, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountCents),
		Currency:           stripe.String(string(stripe.CurrencyEUR)),
		Customer:           stripe.String(customerID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	params.IdempotencyKey = stripe.String(idempotencyKey)
	intent, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: create payment intent: %v", domain.ErrPaymentProcessor, err)
	}
	return &domain.ProcessorIntent{ID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

func (p *stripeProcessor) CreateSEPASetupIntent(ctx context.Context, customerID string) (*domain.ProcessorIntent, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	params := &stripe.SetupIntentParams{
		Customer:           stripe.String(customerID),
		PaymentMethodTypes: stripe.StringSlice([]string{"sepa_debit"}),
	}
	params.Context = ctx
	intent, err := p.api.SetupIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: create setup intent: %v", domain.ErrPaymentProcessor, err)
	}
	return &domain.ProcessorIntent{ID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

func (p *stripeProcessor) GetCoupon(ctx context.Context, code string) (*domain.Coupon, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	params := &stripe.CouponParams{}
	params.Context = ctx
	c, err := p.api.Coupons.Get(code, params)
	if err != nil {
		return nil, fmt.Errorf("%w: get coupon: %v", domain.ErrPaymentProcessor, err)
	}
	return &domain.Coupon{Code: c.ID, AmountOffCents: c.AmountOff, Valid: c.Valid}, nil
}

func (p *stripeProcessor) CreateVoucher(ctx context.Context, amountCents int64, idempotencyKey string) (*domain.Voucher, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	// Coupon IDs double as the voucher code shown to the user, so make them
	// short and typeable rather than Stripe's default opaque ID.
	code := "VOUCHER-" + strings.ToUpper(uuid.NewString()[:8])
	params := &stripe.CouponParams{
		ID:        stripe.String(code),
		AmountOff: stripe.Int64(amountCents),
		Currency:  stripe.String(string(stripe.CurrencyEUR)),
		Duration:  stripe.String(string(stripe.CouponDurationOnce)),
	}
	params.Context = ctx
	params.IdempotencyKey = stripe.String(idempotencyKey)
	c, err := p.api.Coupons.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: create voucher: %v", domain.ErrPaymentProcessor, err)
	}
	return &domain.Voucher{Code: c.ID, AmountOffCents: c.AmountOff}, nil
}
