package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"balcvetov/api/internal/database"
	"balcvetov/api/internal/models"
	"balcvetov/api/internal/repository"
	"balcvetov/api/internal/security"
)

// ReferrerRef points at the user who referred a new account, either by
// internal id or by the shareable referral code. The zero value means none.
type ReferrerRef struct {
	ID   int64
	Code string
}

// ParseReferrerRef accepts a decimal user id or a referral code.
func ParseReferrerRef(raw string) ReferrerRef {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ReferrerRef{}
	}
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return ReferrerRef{ID: id}
	}
	return ReferrerRef{Code: strings.ToUpper(raw)}
}

func (r ReferrerRef) IsZero() bool {
	return r.ID == 0 && r.Code == ""
}

type NewUser struct {
	Email      string
	Password   string
	FullName   string
	Phone      string
	ReferredBy ReferrerRef
}

type CredentialStore struct {
	users     *repository.UserRepository
	customers *repository.CustomerRepository
	params    security.Argon2Params
	verify    func(password, encodedHash string) (bool, error)
}

func NewCredentialStore(db database.DBTX) *CredentialStore {
	return &CredentialStore{
		users:     repository.NewUserRepository(db),
		customers: repository.NewCustomerRepository(db),
		params:    security.DefaultParams,
		verify:    security.VerifyPassword,
	}
}

func (c *CredentialStore) withDB(db database.DBTX) *CredentialStore {
	store := NewCredentialStore(db)
	store.params = c.params
	store.verify = c.verify
	return store
}

// dummyHash is verified against when the email is unknown so both failure
// paths spend the same hashing time.
var dummyHash = sync.OnceValue(func() string {
	hash, err := security.HashPassword("balcvetov:unknown-account")
	if err != nil {
		return ""
	}
	return hash
})

// Create inserts the user with a placeholder referral code, replaces it with
// the canonical code derived from the new id and provisions the customer
// profile. Callers run it inside a transaction.
func (c *CredentialStore) Create(ctx context.Context, input NewUser) (models.User, error) {
	taken, err := c.users.EmailExists(ctx, input.Email)
	if err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, ErrDuplicateEmail
	}

	var referredBy *int64
	if !input.ReferredBy.IsZero() {
		id, err := c.ResolveReferrer(ctx, input.ReferredBy)
		if err != nil {
			return models.User{}, err
		}
		referredBy = &id
	}

	passwordHash, err := security.HashPasswordWithParams(input.Password, c.params)
	if err != nil {
		return models.User{}, err
	}
	placeholder, err := security.TemporaryReferralCode()
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:        input.Email,
		PasswordHash: passwordHash,
		FullName:     input.FullName,
		Phone:        input.Phone,
		Role:         models.UserRoleCustomer,
		ReferralCode: placeholder,
		ReferredBy:   referredBy,
		IsActive:     true,
	}

	user.ID, err = c.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}

	user.ReferralCode = security.ReferralCode(user.ID)
	if err := c.users.SetReferralCode(ctx, user.ID, user.ReferralCode); err != nil {
		return models.User{}, err
	}
	if err := c.customers.CreateProfile(ctx, user.ID); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// VerifyCredentials fails with ErrInvalidCredentials for an unknown email, a
// wrong password and a deactivated account alike.
func (c *CredentialStore) VerifyCredentials(ctx context.Context, email, password string) (models.User, error) {
	user, err := c.users.FindActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, c.reject(password)
		}
		return models.User{}, err
	}

	ok, err := c.verify(password, user.PasswordHash)
	if err != nil || !ok {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// reject pays for one hash verification against dummyHash and fails with
// ErrInvalidCredentials.
func (c *CredentialStore) reject(password string) error {
	_, _ = c.verify(password, dummyHash())
	return ErrInvalidCredentials
}

func (c *CredentialStore) ResolveReferrer(ctx context.Context, ref ReferrerRef) (int64, error) {
	var (
		user models.User
		err  error
	)
	switch {
	case ref.Code != "":
		user, err = c.users.GetByReferralCode(ctx, ref.Code)
	case ref.ID > 0:
		user, err = c.users.GetByID(ctx, ref.ID)
	default:
		return 0, ErrInvalidReferrer
	}
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, ErrInvalidReferrer
		}
		return 0, err
	}
	return user.ID, nil
}
