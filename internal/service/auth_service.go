package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"balcvetov/api/internal/database"
	"balcvetov/api/internal/models"
)

type AuthService struct {
	db          database.Pool
	credentials *CredentialStore
	sessions    *SessionManager
	log         zerolog.Logger
}

func NewAuthService(db database.Pool, log zerolog.Logger) *AuthService {
	return &AuthService{
		db:          db,
		credentials: NewCredentialStore(db),
		sessions:    NewSessionManager(db),
		log:         log,
	}
}

type RegisterInput struct {
	Email      string
	Password   string
	FullName   string
	Phone      string
	ReferredBy ReferrerRef
}

type RegisterResult struct {
	UserID       int64
	ReferralCode string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      models.User
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates the account, its customer profile and the optional referral
// bonus in a single transaction.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (RegisterResult, error) {
	input.Email = normalizeEmail(input.Email)
	if input.Email == "" || input.Password == "" {
		return RegisterResult{}, validationError("Email and password are required")
	}
	if !strings.Contains(input.Email, "@") {
		return RegisterResult{}, validationError("Invalid email")
	}

	var result RegisterResult
	err := database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		user, err := s.credentials.withDB(tx).Create(ctx, NewUser{
			Email:      input.Email,
			Password:   input.Password,
			FullName:   strings.TrimSpace(input.FullName),
			Phone:      strings.TrimSpace(input.Phone),
			ReferredBy: input.ReferredBy,
		})
		if err != nil {
			return err
		}

		if user.ReferredBy != nil {
			if err := NewReferralLedger(tx).RecordReferral(ctx, *user.ReferredBy, user.ID, ReferralBonus); err != nil {
				return err
			}
		}

		result = RegisterResult{UserID: user.ID, ReferralCode: user.ReferralCode}
		return nil
	})
	if err != nil {
		return RegisterResult{}, err
	}

	event := s.log.Info().Int64("user_id", result.UserID)
	if !input.ReferredBy.IsZero() {
		event = event.Bool("referred", true)
	}
	event.Msg("user registered")
	return result, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, s.credentials.reject(password)
	}

	user, err := s.credentials.VerifyCredentials(ctx, email, password)
	if err != nil {
		return LoginResult{}, err
	}

	token, expiresAt, err := s.sessions.IssueToken(ctx, user.ID)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Logout always succeeds for missing or unknown tokens.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.RevokeToken(ctx, token)
}

func (s *AuthService) WhoAmI(ctx context.Context, token string) (models.User, error) {
	return s.sessions.ValidateToken(ctx, token)
}

// Sessions exposes the session manager for request authentication.
func (s *AuthService) Sessions() *SessionManager {
	return s.sessions
}
