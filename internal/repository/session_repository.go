package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"balcvetov/api/internal/database"
	"balcvetov/api/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository struct {
	db database.DBTX
}

func NewSessionRepository(db database.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session models.Session) (int64, error) {
	const query = `
		INSERT INTO sessions (user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id
	`

	var id int64
	if err := r.db.QueryRow(ctx, query, session.UserID, session.TokenHash, session.ExpiresAt).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// FindWithUser loads the session for a token digest together with its owner.
// Expiry is left to the caller.
func (r *SessionRepository) FindWithUser(ctx context.Context, tokenHash []byte) (models.Session, models.User, error) {
	const query = `
		SELECT s.id, s.user_id, s.expires_at,
		       u.email, u.full_name, u.phone, u.role, u.referral_code, u.is_active
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token_hash = $1
	`

	var (
		session models.Session
		user    models.User
		role    string
	)
	err := r.db.QueryRow(ctx, query, tokenHash).Scan(
		&session.ID,
		&session.UserID,
		&session.ExpiresAt,
		&user.Email,
		&user.FullName,
		&user.Phone,
		&role,
		&user.ReferralCode,
		&user.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Session{}, models.User{}, ErrSessionNotFound
		}
		return models.Session{}, models.User{}, err
	}

	session.TokenHash = tokenHash
	user.ID = session.UserID
	user.Role = models.UserRole(role)
	return session, user, nil
}

// Expire soft-revokes a session by pulling its expiry back to at. Sessions that
// already expired earlier keep their original timestamp. Unknown digests are a no-op.
func (r *SessionRepository) Expire(ctx context.Context, tokenHash []byte, at time.Time) (bool, error) {
	const query = `
		UPDATE sessions
		SET expires_at = LEAST(expires_at, $2)
		WHERE token_hash = $1
	`

	cmd, err := r.db.Exec(ctx, query, tokenHash, at)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
