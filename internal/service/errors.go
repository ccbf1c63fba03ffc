package service

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
)

// ValidationError carries the client-facing message of a rejected request.
// It matches ErrValidation under errors.Is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func validationError(message string) error {
	return &ValidationError{Message: message}
}

// ErrInvalidReferrer rejects a registration whose referrer does not resolve to a user.
var ErrInvalidReferrer = &ValidationError{Message: "Invalid referrer"}
