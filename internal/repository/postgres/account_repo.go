package postgres

import (
	"context"
	"database/sql"
	"errors"

	"barhopregistration/internal/domain"
)

type accountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) domain.AccountRepository {
	return &accountRepository{
		DB: db,
	}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (name, active, owner_email, owner_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		account.Name, account.Active, account.OwnerEmail, account.OwnerName,
		account.CreatedAt, account.UpdatedAt,
	).Scan(&account.ID)
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `
		SELECT id, name, active, owner_email, owner_name, stripe_customer_id, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`
	a := &domain.Account{}
	var stripeCustomerID sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.Name, &a.Active, &a.OwnerEmail, &a.OwnerName,
		&stripeCustomerID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	a.StripeCustomerID = stripeCustomerID.String
	return a, nil
}

func (r *accountRepository) SetStripeCustomerID(ctx context.Context, id, customerID string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE accounts SET stripe_customer_id = $2, updated_at = NOW() WHERE id = $1`,
		id, customerID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *accountRepository) AttachUser(ctx context.Context, accountID, userID, permission string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO account_users (account_id, user_id, permission, onboarded, created_at)
		VALUES ($1, $2, $3, FALSE, NOW())
		ON CONFLICT (account_id, user_id) DO UPDATE SET permission = EXCLUDED.permission
	`, accountID, userID, permission)
	return err
}

func (r *accountRepository) ListUsersByAccountName(ctx context.Context, name string) ([]*domain.User, error) {
	query := `
		SELECT u.id, u.email, u.first_name, u.last_name, u.name, u.locale
		FROM users u
		JOIN accounts a ON a.id = u.default_account_id
		WHERE a.name = $1 AND a.active = TRUE
	`
	rows, err := r.DB.QueryContext(ctx, query, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u := &domain.User{}
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Name, &u.Locale); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}
