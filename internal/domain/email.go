package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the
// given data. Locale is matched by prefix ("de-DE" -> "de") and falls back
// to English when no localized variant exists.
type EmailTemplateRenderer interface {
	Render(templateName, locale string, data any) (subject, htmlBody, textBody string, err error)
}

// RegistrationConfirmedEmailData holds data for the registration confirmation email.
type RegistrationConfirmedEmailData struct {
	Email     string
	Name      string
	EventName string
	EventDate string
	ButtonURL string
	Locale    string
}

// JoinInvitationEmailData holds data for the friend invitation email. The
// link carries a time-limited reset-style token.
type JoinInvitationEmailData struct {
	Email     string
	Name      string
	EventName string
	EventDate string
	ResetURL  string
	Locale    string
}

// CancellationEmailData holds data for the cancellation email. When a voucher
// was issued the voucher template is used instead of the plain one.
type CancellationEmailData struct {
	Email         string
	Name          string
	EventName     string
	VoucherIssued bool
	VoucherCode   string
	VoucherAmount int64 // whole currency units
	Locale        string
}

// CapacityWarningEmailData holds data for the 90%-capacity admin warning.
type CapacityWarningEmailData struct {
	Email        string
	Name         string
	EventName    string
	EventDate    string
	EventTime    string
	City         string
	Current      int
	Capacity     int
	Available    int
	Percent      int
	DashboardURL string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendRegistrationConfirmed(ctx context.Context, data *RegistrationConfirmedEmailData) error
	SendJoinInvitation(ctx context.Context, data *JoinInvitationEmailData) error
	SendCancellation(ctx context.Context, data *CancellationEmailData) error
	SendCapacityWarning(ctx context.Context, data *CapacityWarningEmailData) error
}
