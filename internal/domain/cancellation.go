package domain

import "context"

// VoucherCutoffHours is the cancellation window: cancelling strictly more
// than this many hours before the event start earns a voucher.
const VoucherCutoffHours = 24.0

// CancellationResult reports what a cancellation did.
type CancellationResult struct {
	Cancelled       bool    `json:"cancelled"`
	VoucherIssued   bool    `json:"voucher_issued"`
	VoucherCode     string  `json:"voucher_code,omitempty"`
	HoursUntilEvent float64 `json:"hours_until_event"`
}

// CancellationService cancels registrations, with voucher issuance when the
// cancellation happens more than 24 hours before event start.
type CancellationService interface {
	Cancel(ctx context.Context, userID, locale, eventID string) (*CancellationResult, error)
	// CancelTeam force-cancels every registration under the payment record
	// (admin action, no vouchers). Returns how many registrations it canceled.
	CancelTeam(ctx context.Context, paymentID string) (int, error)
}
