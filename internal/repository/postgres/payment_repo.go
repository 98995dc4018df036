package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"barhopregistration/internal/domain"
)

type paymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(db *sql.DB) domain.PaymentRepository {
	return &paymentRepository{
		DB: db,
	}
}

const paymentColumns = `
	id, user_id, event_id, participant_id, sub_participant_ids,
	invited_user_id, type, amount, status, created_at, updated_at`

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPayment(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}

// MarkPaid is the idempotency gate for payment confirmation: only the call
// that wins the unpaid -> paid swap may run downstream effects.
func (r *paymentRepository) MarkPaid(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE payments
		SET status = 'paid', updated_at = NOW()
		WHERE id = $1 AND status = 'unpaid'
	`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *paymentRepository) GetPaidByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE event_id = $1 AND user_id = $2 AND status = 'paid'
		ORDER BY created_at DESC
		LIMIT 1
	`
	p, err := scanPayment(r.DB.QueryRowContext(ctx, query, eventID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	p := &domain.Payment{}
	var invitedUserID sql.NullString
	var subIDs pq.StringArray
	err := row.Scan(
		&p.ID, &p.UserID, &p.EventID, &p.ParticipantID, &subIDs,
		&invitedUserID, &p.Type, &p.Amount, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.SubParticipantIDs = subIDs
	p.InvitedUserID = invitedUserID.String
	return p, nil
}
