package models

import "time"

type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleAdmin    UserRole = "admin"
)

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FullName     string
	Phone        string
	Role         UserRole
	ReferralCode string
	ReferredBy   *int64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is a bearer-token grant. Only the SHA-256 of the token is kept.
type Session struct {
	ID        int64
	UserID    int64
	TokenHash []byte
	ExpiresAt time.Time
	CreatedAt time.Time
}

// ValidAt reports whether the session is still usable at the given instant.
// A session expiring exactly at now is already expired.
func (s Session) ValidAt(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

type Referral struct {
	ID          int64
	ReferrerID  int64
	ReferredID  int64
	BonusAmount int64
	CreatedAt   time.Time
}
