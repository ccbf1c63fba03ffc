package service

import (
	"context"
	"errors"
	"time"

	"balcvetov/api/internal/database"
	"balcvetov/api/internal/models"
	"balcvetov/api/internal/repository"
	"balcvetov/api/internal/security"
)

// SessionTTL is the hard lifetime of a session counted from login.
const SessionTTL = 30 * 24 * time.Hour

type SessionManager struct {
	sessions *repository.SessionRepository
	now      func() time.Time
}

func NewSessionManager(db database.DBTX) *SessionManager {
	return &SessionManager{
		sessions: repository.NewSessionRepository(db),
		now:      time.Now,
	}
}

// IssueToken persists a new session for the user. Existing sessions stay valid.
func (m *SessionManager) IssueToken(ctx context.Context, userID int64) (string, time.Time, error) {
	token, hash, err := security.GenerateSessionToken()
	if err != nil {
		return "", time.Time{}, err
	}

	expiresAt := m.now().UTC().Add(SessionTTL)
	if _, err := m.sessions.Create(ctx, models.Session{
		UserID:    userID,
		TokenHash: hash,
		ExpiresAt: expiresAt,
	}); err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ValidateToken resolves the owner of a live session. Missing, unknown and
// expired tokens all fail with ErrUnauthorized. Expiry is never extended.
func (m *SessionManager) ValidateToken(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, ErrUnauthorized
	}

	session, user, err := m.sessions.FindWithUser(ctx, security.HashSessionToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return models.User{}, ErrUnauthorized
		}
		return models.User{}, err
	}
	if !session.ValidAt(m.now()) {
		return models.User{}, ErrUnauthorized
	}
	return user, nil
}

// RevokeToken expires the session now. Empty and unknown tokens are a no-op.
func (m *SessionManager) RevokeToken(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	_, err := m.sessions.Expire(ctx, security.HashSessionToken(token), m.now().UTC())
	return err
}
