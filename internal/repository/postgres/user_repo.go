package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"barhopregistration/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{
		DB: db,
	}
}

const userColumns = `
	id, email, first_name, last_name, name, locale, verified, is_invited,
	onboarded, default_account_id, relationship_goal, kind_of_person,
	feel_around_new_people, prefer_spending_time, describe_you_better,
	describe_role_in_relationship, looking_for, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (
			email, first_name, last_name, name, locale, verified, is_invited,
			onboarded, default_account_id, password_hash, password_salt,
			relationship_goal, kind_of_person, feel_around_new_people,
			prefer_spending_time, describe_you_better,
			describe_role_in_relationship, looking_for, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id
	`
	var defaultAccount sql.NullString
	if user.DefaultAccountID != nil {
		defaultAccount = sql.NullString{String: *user.DefaultAccountID, Valid: true}
	}
	err := r.DB.QueryRowContext(ctx, query,
		user.Email, user.FirstName, user.LastName, user.Name, user.Locale,
		user.Verified, user.IsInvited, user.Onboarded, defaultAccount,
		user.PasswordHash, user.PasswordSalt,
		user.Profile.RelationshipGoal, user.Profile.KindOfPerson,
		user.Profile.FeelAroundNewPeople, user.Profile.PreferSpendingTime,
		user.Profile.DescribeYouBetter, user.Profile.DescribeRoleInRelationship,
		user.Profile.LookingFor, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, email))
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, id))
}

func (r *userRepository) UpdateProfile(ctx context.Context, userID string, profile domain.Profile) error {
	query := `
		UPDATE users
		SET relationship_goal = $2, kind_of_person = $3, feel_around_new_people = $4,
		    prefer_spending_time = $5, describe_you_better = $6,
		    describe_role_in_relationship = $7, looking_for = $8, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, userID,
		profile.RelationshipGoal, profile.KindOfPerson, profile.FeelAroundNewPeople,
		profile.PreferSpendingTime, profile.DescribeYouBetter,
		profile.DescribeRoleInRelationship, profile.LookingFor,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) SetOnboarded(ctx context.Context, userID string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET onboarded = TRUE, updated_at = NOW() WHERE id = $1`,
		userID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) SetDefaultAccount(ctx context.Context, userID, accountID string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET default_account_id = $2, updated_at = NOW() WHERE id = $1`,
		userID, accountID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) scanUser(row rowScanner) (*domain.User, error) {
	u := &domain.User{}
	var defaultAccount sql.NullString
	err := row.Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Name, &u.Locale,
		&u.Verified, &u.IsInvited, &u.Onboarded, &defaultAccount,
		&u.Profile.RelationshipGoal, &u.Profile.KindOfPerson,
		&u.Profile.FeelAroundNewPeople, &u.Profile.PreferSpendingTime,
		&u.Profile.DescribeYouBetter, &u.Profile.DescribeRoleInRelationship,
		&u.Profile.LookingFor, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if defaultAccount.Valid {
		s := defaultAccount.String
		u.DefaultAccountID = &s
	}
	return u, nil
}
