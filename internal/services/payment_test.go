package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"barhopregistration/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type paymentFixture struct {
	paymentRepo *mockPaymentRepository
	regRepo     *mockRegistrationRepository
	eventRepo   *mockEventRepository
	userRepo    *mockUserRepository
	accountRepo *mockAccountRepository
	processor   *mockPaymentProcessor
	emails      *mockEmailService
	svc         *paymentService
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	event := testEvent(10)
	event.Date = time.Now().Add(72 * time.Hour)

	f := &paymentFixture{
		paymentRepo: &mockPaymentRepository{
			payments: map[string]*domain.Payment{
				"pay-1": {
					ID:            "pay-1",
					UserID:        "u1",
					EventID:       "e1",
					ParticipantID: "reg-main",
					Type:          domain.PaymentTypeRegisterEvent,
					Amount:        domain.PriceSingle,
					Status:        domain.PaymentUnpaid,
				},
			},
			markPaidOK: true,
		},
		regRepo: &mockRegistrationRepository{transitionOK: true},
		eventRepo: &mockEventRepository{
			events:     map[string]*domain.Event{"e1": event},
			registered: map[string]int{"e1": 4},
		},
		userRepo: &mockUserRepository{
			usersByID: map[string]*domain.User{
				"u1": {ID: "u1", Email: "ana@example.com", FirstName: "Ana", Name: "Ana Meyer", Locale: "de-DE"},
			},
		},
		accountRepo: &mockAccountRepository{
			accounts: map[string]*domain.Account{
				"acct-1": {ID: "acct-1", Name: "Ana Meyer", Active: true},
			},
		},
		processor: &mockPaymentProcessor{
			customer:   &domain.ProcessorCustomer{ID: "cus_123"},
			cardIntent: &domain.ProcessorIntent{ID: "pi_123", ClientSecret: "pi_123_secret"},
			sepaIntent: &domain.ProcessorIntent{ID: "seti_123", ClientSecret: "seti_123_secret"},
		},
		emails: &mockEmailService{},
	}
	cfg := PaymentConfig{
		ClientURL:        "https://app.example.com",
		AdminClientURL:   "https://admin.example.com",
		AdminAccountName: "Master",
		Location:         time.UTC,
	}
	f.svc = NewPaymentService(
		f.paymentRepo, f.regRepo, f.eventRepo, f.userRepo, f.accountRepo,
		f.processor, f.emails, &mockTokenIssuer{token: "tok-abc"}, cfg, discardLogger(),
	).(*paymentService)
	return f
}

func TestPaymentService_InitiatePayment_Card(t *testing.T) {
	f := newPaymentFixture(t)

	init, err := f.svc.InitiatePayment(context.Background(), "u1", "acct-1", "pay-1", &domain.PaymentInput{
		TokenID:        "tok_visa",
		CreditCardName: "Ana Meyer",
	})
	if err != nil {
		t.Fatalf("InitiatePayment() error = %v", err)
	}
	if !init.RequiresPaymentAction {
		t.Error("expected RequiresPaymentAction")
	}
	if init.Method != "card" {
		t.Errorf("method = %q, want card", init.Method)
	}
	if init.AmountDue != 2000 {
		t.Errorf("amount due = %d cents, want 2000", init.AmountDue)
	}
	if f.processor.cardAmount != 2000 {
		t.Errorf("processor charged %d cents, want 2000", f.processor.cardAmount)
	}
	if f.processor.cardIdemKey != "pay-1" {
		t.Errorf("idempotency key = %q, want the payment ID", f.processor.cardIdemKey)
	}
	if f.accountRepo.stripeSet["acct-1"] != "cus_123" {
		t.Errorf("processor customer not persisted on account: %v", f.accountRepo.stripeSet)
	}
}

func TestPaymentService_InitiatePayment_ReusesCustomer(t *testing.T) {
	f := newPaymentFixture(t)
	f.accountRepo.accounts["acct-1"].StripeCustomerID = "cus_existing"
	f.processor.customerErr = errors.New("must not be called")

	init, err := f.svc.InitiatePayment(context.Background(), "u1", "acct-1", "pay-1", &domain.PaymentInput{})
	if err != nil {
		t.Fatalf("InitiatePayment() error = %v", err)
	}
	if init.CustomerID != "cus_existing" {
		t.Errorf("customer = %q, want cus_existing", init.CustomerID)
	}
}

func TestPaymentService_InitiatePayment_SEPA(t *testing.T) {
	f := newPaymentFixture(t)

	init, err := f.svc.InitiatePayment(context.Background(), "u1", "acct-1", "pay-1", &domain.PaymentInput{
		SEPAForm:          true,
		AccountHolderName: "Ana Meyer",
	})
	if err != nil {
		t.Fatalf("InitiatePayment() error = %v", err)
	}
	if init.Method != "directdebit" || init.Type != "setup" {
		t.Errorf("method/type = %q/%q, want directdebit/setup", init.Method, init.Type)
	}
	if init.ClientSecret != "seti_123_secret" {
		t.Errorf("client secret = %q", init.ClientSecret)
	}
	if init.AccountHolderName != "Ana Meyer" {
		t.Errorf("account holder = %q", init.AccountHolderName)
	}
}

func TestPaymentService_InitiatePayment_CouponDiscount(t *testing.T) {
	f := newPaymentFixture(t)
	f.paymentRepo.payments["pay-1"].Amount = domain.PriceWithFriend
	f.processor.coupons = map[string]*domain.Coupon{
		"WELCOME15": {Code: "WELCOME15", AmountOffCents: 1500, Valid: true},
	}

	init, err := f.svc.InitiatePayment(context.Background(), "u1", "acct-1", "pay-1", &domain.PaymentInput{
		CouponCode: "WELCOME15",
	})
	if err != nil {
		t.Fatalf("InitiatePayment() error = %v", err)
	}
	if init.AmountDue != 2500 {
		t.Errorf("amount due = %d cents, want 2500", init.AmountDue)
	}
}

func TestPaymentService_InitiatePayment_VoucherCoversEverything(t *testing.T) {
	f := newPaymentFixture(t)
	f.processor.coupons = map[string]*domain.Coupon{
		"FULLRIDE": {Code: "FULLRIDE", AmountOffCents: 5000, Valid: true},
	}

	init, err := f.svc.InitiatePayment(context.Background(), "u1", "acct-1", "pay-1", &domain.PaymentInput{
		CouponCode: "FULLRIDE",
	})
	if err != nil {
		t.Fatalf("InitiatePayment() error = %v", err)
	}
	if !init.FreeRegistration {
		t.Error("expected FreeRegistration")
	}
	if init.AmountDue != 0 {
		t.Errorf("amount due = %d, want 0 (never negative)", init.AmountDue)
	}
	// The free path runs the confirmation flow immediately.
	if len(f.regRepo.transitions) == 0 {
		t.Error("expected registration to be activated")
	}
	if len(f.emails.confirmations) != 1 {
		t.Errorf("sent %d confirmations, want 1", len(f.emails.confirmations))
	}
}

func TestPaymentService_InitiatePayment_InvalidCouponIgnored(t *testing.T) {
	f := newPaymentFixture(t)

	init, err := f.svc.InitiatePayment(context.Background(), "u1", "acct-1", "pay-1", &domain.PaymentInput{
		CouponCode: "NOPE",
	})
	if err != nil {
		t.Fatalf("InitiatePayment() error = %v", err)
	}
	if init.AmountDue != 2000 {
		t.Errorf("amount due = %d cents, want full 2000", init.AmountDue)
	}
}

func TestPaymentService_InitiatePayment_Errors(t *testing.T) {
	t.Run("unknown payment", func(t *testing.T) {
		f := newPaymentFixture(t)
		_, err := f.svc.InitiatePayment(context.Background(), "u1", "acct-1", "pay-missing", &domain.PaymentInput{})
		if !errors.Is(err, domain.ErrPaymentNotFound) {
			t.Errorf("error = %v, want ErrPaymentNotFound", err)
		}
	})
	t.Run("someone else's payment", func(t *testing.T) {
		f := newPaymentFixture(t)
		_, err := f.svc.InitiatePayment(context.Background(), "u-other", "acct-1", "pay-1", &domain.PaymentInput{})
		if !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
	})
	t.Run("event already held", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.eventRepo.events["e1"].Date = time.Now().Add(-48 * time.Hour)
		_, err := f.svc.InitiatePayment(context.Background(), "u1", "acct-1", "pay-1", &domain.PaymentInput{})
		if !errors.Is(err, domain.ErrEventAlreadyHeld) {
			t.Errorf("error = %v, want ErrEventAlreadyHeld", err)
		}
	})
	t.Run("event full", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.eventRepo.registered["e1"] = 10
		_, err := f.svc.InitiatePayment(context.Background(), "u1", "acct-1", "pay-1", &domain.PaymentInput{})
		if !errors.Is(err, domain.ErrEventFull) {
			t.Errorf("error = %v, want ErrEventFull", err)
		}
	})
	t.Run("already paid", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.paymentRepo.payments["pay-1"].Status = domain.PaymentPaid
		_, err := f.svc.InitiatePayment(context.Background(), "u1", "acct-1", "pay-1", &domain.PaymentInput{})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput", err)
		}
	})
}

func TestPaymentService_ConfirmPayment(t *testing.T) {
	f := newPaymentFixture(t)
	f.paymentRepo.payments["pay-1"].SubParticipantIDs = []string{"reg-sub"}

	alreadyPaid, err := f.svc.ConfirmPayment(context.Background(), "u1", "acct-1", "de-DE", "pay-1")
	if err != nil {
		t.Fatalf("ConfirmPayment() error = %v", err)
	}
	if alreadyPaid {
		t.Error("first confirmation must not report alreadyPaid")
	}
	wantTransitions := []string{
		"reg-main:process->registered",
		"reg-sub:process->registered",
	}
	if len(f.regRepo.transitions) != len(wantTransitions) {
		t.Fatalf("transitions = %v, want %v", f.regRepo.transitions, wantTransitions)
	}
	for i, want := range wantTransitions {
		if f.regRepo.transitions[i] != want {
			t.Errorf("transition[%d] = %q, want %q", i, f.regRepo.transitions[i], want)
		}
	}
	if len(f.userRepo.onboarded) != 1 || f.userRepo.onboarded[0] != "u1" {
		t.Errorf("onboarded = %v, want [u1]", f.userRepo.onboarded)
	}
	if len(f.emails.confirmations) != 1 {
		t.Fatalf("sent %d confirmations, want 1", len(f.emails.confirmations))
	}
	if got := f.emails.confirmations[0].Locale; got != "de-DE" {
		t.Errorf("confirmation locale = %q, want de-DE", got)
	}
}

func TestPaymentService_ConfirmPayment_Idempotent(t *testing.T) {
	f := newPaymentFixture(t)
	f.paymentRepo.markPaidOK = false // already swapped by a prior call

	alreadyPaid, err := f.svc.ConfirmPayment(context.Background(), "u1", "acct-1", "en", "pay-1")
	if err != nil {
		t.Fatalf("ConfirmPayment() error = %v", err)
	}
	if !alreadyPaid {
		t.Error("second confirmation must report alreadyPaid")
	}
	if len(f.regRepo.transitions) != 0 {
		t.Errorf("no effects expected, got transitions %v", f.regRepo.transitions)
	}
	if len(f.emails.confirmations) != 0 {
		t.Errorf("no effects expected, got %d emails", len(f.emails.confirmations))
	}
}

func TestPaymentService_ConfirmPayment_InvitedFriend(t *testing.T) {
	f := newPaymentFixture(t)
	f.paymentRepo.payments["pay-1"].SubParticipantIDs = []string{"reg-sub"}
	f.paymentRepo.payments["pay-1"].InvitedUserID = "u2"
	f.userRepo.usersByID["u2"] = &domain.User{
		ID: "u2", Email: "ben@example.com", FirstName: "Ben", Name: "Ben Klein",
		IsInvited: true, Locale: "en",
	}

	if _, err := f.svc.ConfirmPayment(context.Background(), "u1", "acct-1", "en", "pay-1"); err != nil {
		t.Fatalf("ConfirmPayment() error = %v", err)
	}
	if len(f.accountRepo.created) != 1 {
		t.Fatalf("created %d accounts, want 1", len(f.accountRepo.created))
	}
	acctID := f.accountRepo.created[0].ID
	if f.userRepo.defaultAccount["u2"] != acctID {
		t.Errorf("friend default account = %q, want %q", f.userRepo.defaultAccount["u2"], acctID)
	}
	if len(f.accountRepo.attached) != 1 || f.accountRepo.attached[0] != acctID+":u2:owner" {
		t.Errorf("attached = %v", f.accountRepo.attached)
	}
	if len(f.emails.invitations) != 1 {
		t.Fatalf("sent %d invitations, want 1", len(f.emails.invitations))
	}
	if url := f.emails.invitations[0].ResetURL; !strings.Contains(url, "token=tok-abc") {
		t.Errorf("reset URL %q missing token", url)
	}
}

func TestPaymentService_ConfirmPayment_ExistingFriendGetsConfirmation(t *testing.T) {
	f := newPaymentFixture(t)
	f.paymentRepo.payments["pay-1"].SubParticipantIDs = []string{"reg-sub"}
	f.paymentRepo.payments["pay-1"].InvitedUserID = "u2"
	existingAccount := "acct-ben"
	f.userRepo.usersByID["u2"] = &domain.User{
		ID: "u2", Email: "ben@example.com", FirstName: "Ben",
		DefaultAccountID: &existingAccount,
	}

	if _, err := f.svc.ConfirmPayment(context.Background(), "u1", "acct-1", "en", "pay-1"); err != nil {
		t.Fatalf("ConfirmPayment() error = %v", err)
	}
	if len(f.accountRepo.created) != 0 {
		t.Errorf("created %d accounts, want 0", len(f.accountRepo.created))
	}
	if len(f.emails.invitations) != 0 {
		t.Errorf("sent %d invitations, want 0", len(f.emails.invitations))
	}
	// Main user plus the existing friend.
	if len(f.emails.confirmations) != 2 {
		t.Errorf("sent %d confirmations, want 2", len(f.emails.confirmations))
	}
}

func TestPaymentService_CapacityWarning(t *testing.T) {
	f := newPaymentFixture(t)
	// Two venues of 5; the 9th registered crosses 90%.
	f.eventRepo.events["e1"].Venues = []*domain.Venue{
		{ID: "v1", AvailableSpots: 5},
		{ID: "v2", AvailableSpots: 5},
	}
	f.eventRepo.registered["e1"] = 9
	f.accountRepo.adminUsers = []*domain.User{
		{ID: "adm1", Email: "ops@example.com", FirstName: "Ops"},
	}

	if _, err := f.svc.ConfirmPayment(context.Background(), "u1", "acct-1", "en", "pay-1"); err != nil {
		t.Fatalf("ConfirmPayment() error = %v", err)
	}
	if f.accountRepo.adminLookupOf != "Master" {
		t.Errorf("admin lookup used account %q, want Master", f.accountRepo.adminLookupOf)
	}
	if len(f.emails.warnings) != 1 {
		t.Fatalf("sent %d warnings, want 1", len(f.emails.warnings))
	}
	w := f.emails.warnings[0]
	if w.Current != 9 || w.Capacity != 10 || w.Available != 1 || w.Percent != 90 {
		t.Errorf("warning numbers = %d/%d avail %d pct %d", w.Current, w.Capacity, w.Available, w.Percent)
	}

	// A second confirmation at the same occupancy must not warn again.
	if _, err := f.svc.ConfirmPayment(context.Background(), "u1", "acct-1", "en", "pay-1"); err != nil {
		t.Fatalf("ConfirmPayment() error = %v", err)
	}
	if len(f.emails.warnings) != 1 {
		t.Errorf("warning fired %d times, want once", len(f.emails.warnings))
	}
}

func TestPaymentService_CapacityWarning_BelowThreshold(t *testing.T) {
	f := newPaymentFixture(t)
	f.eventRepo.registered["e1"] = 8 // 80% of 10
	f.accountRepo.adminUsers = []*domain.User{{ID: "adm1", Email: "ops@example.com"}}

	if _, err := f.svc.ConfirmPayment(context.Background(), "u1", "acct-1", "en", "pay-1"); err != nil {
		t.Fatalf("ConfirmPayment() error = %v", err)
	}
	if len(f.emails.warnings) != 0 {
		t.Errorf("sent %d warnings, want 0", len(f.emails.warnings))
	}
	if f.eventRepo.latchCalls != 0 {
		t.Errorf("latch touched %d times below threshold", f.eventRepo.latchCalls)
	}
}
