package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"balcvetov/api/internal/models"
	"balcvetov/api/internal/security"
)

var userColumns = []string{"id", "email", "password_hash", "full_name", "phone", "role", "referral_code", "is_active"}

var sessionColumns = []string{
	"id", "user_id", "expires_at", "email", "full_name", "phone", "role", "referral_code", "is_active",
}

func expectNewUser(mock pgxmock.PgxPoolIface, id int64, code string) {
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(anyArgs(7)...).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(id))
	mock.ExpectExec(`UPDATE users SET referral_code = \$2`).
		WithArgs(id, code).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`INSERT INTO customers`).
		WithArgs(id, "active").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
}

func TestRegister_WithoutReferrer(t *testing.T) {
	svc, mock := newTestAuthService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("anna@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	expectNewUser(mock, 42, "BAL00042")
	mock.ExpectCommit()

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  Anna@Example.com ",
		Password: "secret",
		FullName: "Anna",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.UserID)
	assert.Equal(t, "BAL00042", result.ReferralCode)
}

func TestRegister_WithReferralCode(t *testing.T) {
	svc, mock := newTestAuthService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("anna@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`WHERE referral_code = \$1`).
		WithArgs("BAL00007").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(int64(7), "olga@example.com", "h", "Olga", "", "customer", "BAL00007", true))
	expectNewUser(mock, 42, "BAL00042")
	mock.ExpectQuery(`INSERT INTO referrals`).
		WithArgs(int64(7), int64(42), int64(500)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectCommit()

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:      "anna@example.com",
		Password:   "secret",
		ReferredBy: ParseReferrerRef("bal00007"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.UserID)
}

func TestRegister_WithReferrerID(t *testing.T) {
	svc, mock := newTestAuthService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("anna@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(int64(7), "olga@example.com", "h", "Olga", "", "customer", "BAL00007", true))
	expectNewUser(mock, 8, "BAL00008")
	mock.ExpectQuery(`INSERT INTO referrals`).
		WithArgs(int64(7), int64(8), int64(500)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectCommit()

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:      "anna@example.com",
		Password:   "secret",
		ReferredBy: ReferrerRef{ID: 7},
	})
	require.NoError(t, err)
}

func TestRegister_UnknownReferrer(t *testing.T) {
	svc, mock := newTestAuthService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("anna@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:      "anna@example.com",
		Password:   "secret",
		ReferredBy: ReferrerRef{ID: 99},
	})
	assert.ErrorIs(t, err, ErrInvalidReferrer)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, mock := newTestAuthService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("anna@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := svc.Register(context.Background(), RegisterInput{Email: "ANNA@example.com", Password: "other"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegister_LosesRaceOnUniqueIndex(t *testing.T) {
	svc, mock := newTestAuthService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("anna@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(anyArgs(7)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	mock.ExpectRollback()

	_, err := svc.Register(context.Background(), RegisterInput{Email: "anna@example.com", Password: "secret"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegister_RollsBackWhenProfileFails(t *testing.T) {
	svc, mock := newTestAuthService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("anna@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(anyArgs(7)...).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectExec(`UPDATE users SET referral_code = \$2`).
		WithArgs(int64(42), "BAL00042").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`INSERT INTO customers`).
		WithArgs(int64(42), "active").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := svc.Register(context.Background(), RegisterInput{Email: "anna@example.com", Password: "secret"})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestRegister_RequiresEmailAndPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Register(context.Background(), RegisterInput{Email: "anna@example.com"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(context.Background(), RegisterInput{Password: "secret"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLogin_IssuesSession(t *testing.T) {
	svc, mock := newTestAuthService(t)

	hash, err := security.HashPasswordWithParams("secret", fastParams)
	require.NoError(t, err)

	mock.ExpectQuery(`WHERE email = \$1 AND is_active = true`).
		WithArgs("anna@example.com").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(int64(42), "anna@example.com", hash, "Anna", "+7900", "customer", "BAL00042", true))
	mock.ExpectQuery(`INSERT INTO sessions`).
		WithArgs(int64(42), pgxmock.AnyArg(), fixedNow.Add(SessionTTL)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))

	result, err := svc.Login(context.Background(), "Anna@Example.com", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, fixedNow.Add(30*24*time.Hour), result.ExpiresAt)
	assert.Equal(t, int64(42), result.User.ID)
	assert.Equal(t, models.UserRoleCustomer, result.User.Role)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	svc, mock := newTestAuthService(t)

	hash, err := security.HashPasswordWithParams("secret", fastParams)
	require.NoError(t, err)

	mock.ExpectQuery(`WHERE email = \$1 AND is_active = true`).
		WithArgs("anna@example.com").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(int64(42), "anna@example.com", hash, "Anna", "", "customer", "BAL00042", true))
	mock.ExpectQuery(`WHERE email = \$1 AND is_active = true`).
		WithArgs("ghost@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, wrongPassword := svc.Login(context.Background(), "anna@example.com", "wrong")
	_, unknownEmail := svc.Login(context.Background(), "ghost@example.com", "secret")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLogin_EveryFailureVerifiesOneHash(t *testing.T) {
	svc, mock := newTestAuthService(t)

	verified := 0
	svc.credentials.verify = func(password, encodedHash string) (bool, error) {
		verified++
		return security.VerifyPassword(password, encodedHash)
	}

	mock.ExpectQuery(`WHERE email = \$1 AND is_active = true`).
		WithArgs("ghost@example.com").
		WillReturnError(pgx.ErrNoRows)

	attempts := []struct{ email, password string }{
		{"ghost@example.com", "secret"},
		{"", "secret"},
		{"anna@example.com", ""},
		{"   ", ""},
	}
	for _, a := range attempts {
		_, err := svc.Login(context.Background(), a.email, a.password)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	assert.Equal(t, len(attempts), verified)
}

func TestWhoAmI(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		wantErr   error
	}{
		{name: "fresh session", expiresAt: fixedNow.Add(SessionTTL)},
		{name: "one nanosecond left", expiresAt: fixedNow.Add(time.Nanosecond)},
		{name: "expires exactly now", expiresAt: fixedNow, wantErr: ErrUnauthorized},
		{name: "already expired", expiresAt: fixedNow.Add(-time.Minute), wantErr: ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock := newTestAuthService(t)

			mock.ExpectQuery(`FROM sessions s`).
				WithArgs(security.HashSessionToken("tok")).
				WillReturnRows(pgxmock.NewRows(sessionColumns).
					AddRow(int64(1), int64(42), tt.expiresAt, "anna@example.com", "Anna", "+7900", "customer", "BAL00042", true))

			user, err := svc.WhoAmI(context.Background(), "tok")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(42), user.ID)
			assert.Equal(t, "+7900", user.Phone)
		})
	}
}

func TestWhoAmI_MissingOrUnknownToken(t *testing.T) {
	svc, mock := newTestAuthService(t)

	_, err := svc.WhoAmI(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	mock.ExpectQuery(`FROM sessions s`).
		WithArgs(security.HashSessionToken("nope")).
		WillReturnError(pgx.ErrNoRows)

	_, err = svc.WhoAmI(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogout_RevokesImmediately(t *testing.T) {
	svc, mock := newTestAuthService(t)
	hash := security.HashSessionToken("tok")

	mock.ExpectExec(`SET expires_at = LEAST\(expires_at, \$2\)`).
		WithArgs(hash, fixedNow).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`FROM sessions s`).
		WithArgs(hash).
		WillReturnRows(pgxmock.NewRows(sessionColumns).
			AddRow(int64(1), int64(42), fixedNow, "anna@example.com", "Anna", "", "customer", "BAL00042", true))

	require.NoError(t, svc.Logout(context.Background(), "tok"))

	_, err := svc.WhoAmI(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogout_MissingOrUnknownToken(t *testing.T) {
	svc, mock := newTestAuthService(t)

	require.NoError(t, svc.Logout(context.Background(), ""))

	mock.ExpectExec(`UPDATE sessions`).
		WithArgs(security.HashSessionToken("unknown"), fixedNow).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.NoError(t, svc.Logout(context.Background(), "unknown"))
}
