package services

import (
	"context"
	"fmt"
	"time"

	"barhopregistration/internal/domain"
)

type mockEventRepository struct {
	events     map[string]*domain.Event
	registered map[string]int
	latched    map[string]bool
	countErr   error
	latchCalls int
}

func (m *mockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	ev, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ev, nil
}

func (m *mockEventRepository) CountRegistered(ctx context.Context, eventID string) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.registered[eventID], nil
}

func (m *mockEventRepository) SetCapacityWarningSent(ctx context.Context, eventID string) (bool, error) {
	m.latchCalls++
	if m.latched == nil {
		m.latched = map[string]bool{}
	}
	if m.latched[eventID] {
		return false, nil
	}
	m.latched[eventID] = true
	return true, nil
}

type mockRegistrationRepository struct {
	regs          map[string]*domain.Registration
	activeByKey   map[string]*domain.Registration
	createTeamErr error
	createdRegs   []*domain.Registration
	createdPay    *domain.Payment
	transitions   []string
	transitionOK  bool
	canceledIDs   []string
	cancelResult  bool
	cancelErr     error
}

func (m *mockRegistrationRepository) CreateTeam(ctx context.Context, eventID string, regs []*domain.Registration, payment *domain.Payment) error {
	if m.createTeamErr != nil {
		return m.createTeamErr
	}
	m.createdRegs = regs
	m.createdPay = payment
	for i, reg := range regs {
		reg.ID = fmt.Sprintf("reg-%d", i+1)
		if reg.IsMainUser {
			payment.ParticipantID = reg.ID
		} else {
			payment.SubParticipantIDs = append(payment.SubParticipantIDs, reg.ID)
		}
	}
	payment.ID = "pay-1"
	return nil
}

func (m *mockRegistrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	reg, ok := m.regs[id]
	if !ok {
		return nil, domain.ErrRegistrationNotFound
	}
	return reg, nil
}

func (m *mockRegistrationRepository) GetActiveByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	reg, ok := m.activeByKey[eventID+":"+userID]
	if !ok {
		return nil, domain.ErrRegistrationNotFound
	}
	return reg, nil
}

func (m *mockRegistrationRepository) UpdateStatus(ctx context.Context, id string, from, to domain.RegistrationStatus) (bool, error) {
	m.transitions = append(m.transitions, fmt.Sprintf("%s:%s->%s", id, from, to))
	return m.transitionOK, nil
}

func (m *mockRegistrationRepository) MarkCanceled(ctx context.Context, id string, at time.Time) (bool, error) {
	if m.cancelErr != nil {
		return false, m.cancelErr
	}
	if !m.cancelResult {
		return false, nil
	}
	m.canceledIDs = append(m.canceledIDs, id)
	return true, nil
}

type mockUserRepository struct {
	usersByID      map[string]*domain.User
	usersByEmail   map[string]*domain.User
	created        []*domain.User
	createErr      error
	profileUpdates []string
	onboarded      []string
	defaultAccount map[string]string
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = fmt.Sprintf("user-new-%d", len(m.created)+1)
	m.created = append(m.created, user)
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, ok := m.usersByEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := m.usersByID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, userID string, profile domain.Profile) error {
	m.profileUpdates = append(m.profileUpdates, userID)
	return nil
}

func (m *mockUserRepository) SetOnboarded(ctx context.Context, userID string) error {
	m.onboarded = append(m.onboarded, userID)
	return nil
}

func (m *mockUserRepository) SetDefaultAccount(ctx context.Context, userID, accountID string) error {
	if m.defaultAccount == nil {
		m.defaultAccount = map[string]string{}
	}
	m.defaultAccount[userID] = accountID
	return nil
}

type mockPaymentRepository struct {
	payments    map[string]*domain.Payment
	markPaidOK  bool
	markPaidErr error
	paidByKey   map[string]*domain.Payment
}

func (m *mockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	return p, nil
}

func (m *mockPaymentRepository) MarkPaid(ctx context.Context, id string) (bool, error) {
	if m.markPaidErr != nil {
		return false, m.markPaidErr
	}
	return m.markPaidOK, nil
}

func (m *mockPaymentRepository) GetPaidByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Payment, error) {
	p, ok := m.paidByKey[eventID+":"+userID]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	return p, nil
}

type mockAccountRepository struct {
	accounts      map[string]*domain.Account
	created       []*domain.Account
	attached      []string
	stripeSet     map[string]string
	adminUsers    []*domain.User
	adminLookupOf string
}

func (m *mockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	account.ID = fmt.Sprintf("acct-new-%d", len(m.created)+1)
	m.created = append(m.created, account)
	return nil
}

func (m *mockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (m *mockAccountRepository) SetStripeCustomerID(ctx context.Context, id, customerID string) error {
	if m.stripeSet == nil {
		m.stripeSet = map[string]string{}
	}
	m.stripeSet[id] = customerID
	return nil
}

func (m *mockAccountRepository) AttachUser(ctx context.Context, accountID, userID, permission string) error {
	m.attached = append(m.attached, accountID+":"+userID+":"+permission)
	return nil
}

func (m *mockAccountRepository) ListUsersByAccountName(ctx context.Context, name string) ([]*domain.User, error) {
	m.adminLookupOf = name
	return m.adminUsers, nil
}

type mockPaymentProcessor struct {
	customer       *domain.ProcessorCustomer
	customerErr    error
	cardIntent     *domain.ProcessorIntent
	cardErr        error
	cardAmount     int64
	cardIdemKey    string
	sepaIntent     *domain.ProcessorIntent
	coupons        map[string]*domain.Coupon
	couponErr      error
	voucher        *domain.Voucher
	voucherErr     error
	voucherAmount  int64
	voucherIdemKey string
}

func (m *mockPaymentProcessor) CreateCustomer(ctx context.Context, email, name, cardToken string) (*domain.ProcessorCustomer, error) {
	if m.customerErr != nil {
		return nil, m.customerErr
	}
	return m.customer, nil
}

func (m *mockPaymentProcessor) CreateCardPaymentIntent(ctx context.Context, customerID string, amountCents int64, idempotencyKey string) (*domain.ProcessorIntent, error) {
	if m.cardErr != nil {
		return nil, m.cardErr
	}
	m.cardAmount = amountCents
	m.cardIdemKey = idempotencyKey
	return m.cardIntent, nil
}

func (m *mockPaymentProcessor) CreateSEPASetupIntent(ctx context.Context, customerID string) (*domain.ProcessorIntent, error) {
	return m.sepaIntent, nil
}

func (m *mockPaymentProcessor) GetCoupon(ctx context.Context, code string) (*domain.Coupon, error) {
	if m.couponErr != nil {
		return nil, m.couponErr
	}
	c, ok := m.coupons[code]
	if !ok {
		return nil, domain.ErrPaymentProcessor
	}
	return c, nil
}

func (m *mockPaymentProcessor) CreateVoucher(ctx context.Context, amountCents int64, idempotencyKey string) (*domain.Voucher, error) {
	if m.voucherErr != nil {
		return nil, m.voucherErr
	}
	m.voucherAmount = amountCents
	m.voucherIdemKey = idempotencyKey
	return m.voucher, nil
}

type mockEmailService struct {
	confirmations []*domain.RegistrationConfirmedEmailData
	invitations   []*domain.JoinInvitationEmailData
	cancellations []*domain.CancellationEmailData
	warnings      []*domain.CapacityWarningEmailData
	sendErr       error
}

func (m *mockEmailService) SendRegistrationConfirmed(ctx context.Context, data *domain.RegistrationConfirmedEmailData) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.confirmations = append(m.confirmations, data)
	return nil
}

func (m *mockEmailService) SendJoinInvitation(ctx context.Context, data *domain.JoinInvitationEmailData) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.invitations = append(m.invitations, data)
	return nil
}

func (m *mockEmailService) SendCancellation(ctx context.Context, data *domain.CancellationEmailData) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.cancellations = append(m.cancellations, data)
	return nil
}

func (m *mockEmailService) SendCapacityWarning(ctx context.Context, data *domain.CapacityWarningEmailData) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.warnings = append(m.warnings, data)
	return nil
}

type mockTokenIssuer struct {
	token string
	err   error
}

func (m *mockTokenIssuer) Issue(userID, accountID string, roles []string, expiry time.Duration) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.token, nil
}

type mockPasswordHasher struct{}

func (m *mockPasswordHasher) GenerateSalt() (string, error) { return "salt", nil }
func (m *mockPasswordHasher) Hash(salt, password string) (string, error) {
	return "hashed:" + password, nil
}
func (m *mockPasswordHasher) Compare(hash, salt, password string) error { return nil }
