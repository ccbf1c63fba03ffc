package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"balcvetov/api/internal/database"
	"balcvetov/api/internal/models"
)

const emailUniqueConstraint = "users_email_key"

type UserRepository struct {
	db database.DBTX
}

func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create inserts the user and returns the generated id. A concurrent insert of
// the same email loses on the unique index and gets ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, user models.User) (int64, error) {
	const query = `
		INSERT INTO users (
			email, password_hash, full_name, phone, role, referral_code, referred_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Phone,
		string(user.Role),
		user.ReferralCode,
		user.ReferredBy,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, emailUniqueConstraint) {
			return 0, ErrEmailTaken
		}
		return 0, err
	}
	return id, nil
}

func (r *UserRepository) SetReferralCode(ctx context.Context, id int64, code string) error {
	const query = `UPDATE users SET referral_code = $2, updated_at = NOW() WHERE id = $1`

	cmd, err := r.db.Exec(ctx, query, id, code)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// FindActiveByEmail only returns accounts that may log in.
func (r *UserRepository) FindActiveByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
		SELECT id, email, password_hash, full_name, phone, role, referral_code, is_active
		FROM users
		WHERE email = $1 AND is_active = true
	`
	return r.scanOne(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	const query = `
		SELECT id, email, password_hash, full_name, phone, role, referral_code, is_active
		FROM users
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByReferralCode(ctx context.Context, code string) (models.User, error) {
	const query = `
		SELECT id, email, password_hash, full_name, phone, role, referral_code, is_active
		FROM users
		WHERE referral_code = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, code))
}

func (r *UserRepository) scanOne(row pgx.Row) (models.User, error) {
	var (
		user models.User
		role string
	)
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Phone,
		&role,
		&user.ReferralCode,
		&user.IsActive,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	user.Role = models.UserRole(role)
	return user, nil
}
