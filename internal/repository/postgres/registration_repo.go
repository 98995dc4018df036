package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"barhopregistration/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

const registrationColumns = `
	id, event_id, user_id, first_name, last_name, email, gender, date_of_birth,
	children, is_main_user, relationship_goal, kind_of_person,
	feel_around_new_people, prefer_spending_time, describe_you_better,
	describe_role_in_relationship, looking_for, status, is_cancelled,
	cancel_date, created_at, updated_at`

// CreateTeam admits a team atomically. The event row is locked for the span
// of the transaction so concurrent registrations serialize on the capacity
// check instead of racing past it.
func (r *registrationRepository) CreateTeam(ctx context.Context, eventID string, regs []*domain.Registration, payment *domain.Payment) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var isCanceled bool
	err = tx.QueryRowContext(ctx,
		`SELECT is_canceled FROM events WHERE id = $1 FOR UPDATE`,
		eventID,
	).Scan(&isCanceled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("lock event row: %w", err)
	}
	if isCanceled {
		return domain.ErrEventCanceled
	}

	var capacity int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(available_spots), 0) FROM venues WHERE event_id = $1`,
		eventID,
	).Scan(&capacity)
	if err != nil {
		return fmt.Errorf("sum venue spots: %w", err)
	}

	var registered int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status = 'registered'`,
		eventID,
	).Scan(&registered)
	if err != nil {
		return fmt.Errorf("count registered: %w", err)
	}
	if registered >= capacity {
		return domain.ErrEventFull
	}

	insertReg := `
		INSERT INTO registrations (
			event_id, user_id, first_name, last_name, email, gender, date_of_birth,
			children, is_main_user, relationship_goal, kind_of_person,
			feel_around_new_people, prefer_spending_time, describe_you_better,
			describe_role_in_relationship, looking_for, status, is_cancelled,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, FALSE, $18, $19)
		RETURNING id
	`
	for _, reg := range regs {
		err = tx.QueryRowContext(ctx, insertReg,
			reg.EventID, reg.UserID, reg.FirstName, reg.LastName, reg.Email,
			reg.Gender, reg.DateOfBirth, reg.Children, reg.IsMainUser,
			reg.Profile.RelationshipGoal, reg.Profile.KindOfPerson,
			reg.Profile.FeelAroundNewPeople, reg.Profile.PreferSpendingTime,
			reg.Profile.DescribeYouBetter, reg.Profile.DescribeRoleInRelationship,
			reg.Profile.LookingFor, reg.Status, reg.CreatedAt, reg.UpdatedAt,
		).Scan(&reg.ID)
		if err != nil {
			return fmt.Errorf("insert registration: %w", err)
		}
	}

	// The payment references registration IDs assigned above, so it is
	// created inside the same transaction.
	subIDs := make([]string, 0, len(payment.SubParticipantIDs))
	for _, reg := range regs {
		if !reg.IsMainUser {
			subIDs = append(subIDs, reg.ID)
		} else {
			payment.ParticipantID = reg.ID
		}
	}
	payment.SubParticipantIDs = subIDs

	var invitedUserID sql.NullString
	if payment.InvitedUserID != "" {
		invitedUserID = sql.NullString{String: payment.InvitedUserID, Valid: true}
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO payments (
			user_id, event_id, participant_id, sub_participant_ids,
			invited_user_id, type, amount, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`,
		payment.UserID, payment.EventID, payment.ParticipantID,
		pq.Array(payment.SubParticipantIDs), invitedUserID, payment.Type,
		payment.Amount, payment.Status, payment.CreatedAt, payment.UpdatedAt,
	).Scan(&payment.ID)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) GetActiveByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE event_id = $1 AND user_id = $2 AND status = 'registered' AND is_cancelled = FALSE
	`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, eventID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) UpdateStatus(ctx context.Context, id string, from, to domain.RegistrationStatus) (bool, error) {
	if !from.CanTransitionTo(to) {
		return false, domain.ErrIllegalTransition
	}
	query := `
		UPDATE registrations
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	res, err := r.DB.ExecContext(ctx, query, id, from, to)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *registrationRepository) MarkCanceled(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `
		UPDATE registrations
		SET status = 'canceled', is_cancelled = TRUE, cancel_date = $2, updated_at = NOW()
		WHERE id = $1 AND status <> 'canceled'
	`
	res, err := r.DB.ExecContext(ctx, query, id, at)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row rowScanner) (*domain.Registration, error) {
	reg := &domain.Registration{}
	var gender, dob sql.NullString
	var cancelDate sql.NullTime
	err := row.Scan(
		&reg.ID, &reg.EventID, &reg.UserID, &reg.FirstName, &reg.LastName,
		&reg.Email, &gender, &dob, &reg.Children, &reg.IsMainUser,
		&reg.Profile.RelationshipGoal, &reg.Profile.KindOfPerson,
		&reg.Profile.FeelAroundNewPeople, &reg.Profile.PreferSpendingTime,
		&reg.Profile.DescribeYouBetter, &reg.Profile.DescribeRoleInRelationship,
		&reg.Profile.LookingFor, &reg.Status, &reg.IsCancelled,
		&cancelDate, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	reg.Gender = gender.String
	reg.DateOfBirth = dob.String
	if cancelDate.Valid {
		t := cancelDate.Time
		reg.CancelDate = &t
	}
	return reg, nil
}
