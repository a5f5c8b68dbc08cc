// Package usecase implements the business logic for the account feature.
package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken is returned when the username is already registered.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrEmailAlreadyExists is returned when the email is already registered.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrReferralCodeTaken is returned by repositories when the generated referral code collides.
	ErrReferralCodeTaken = errors.New("referral code already taken")

	// ErrCodeGenerationExhausted is returned when every referral code attempt collided.
	ErrCodeGenerationExhausted = errors.New("referral code generation exhausted")

	// ErrInvalidCredentials is returned for any failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrSessionNotEstablished accompanies a created user whose session could not be opened.
	ErrSessionNotEstablished = errors.New("account created but session not established")

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionRevoked is returned when attempting to use a revoked session.
	ErrSessionRevoked = errors.New("session has been revoked")

	// ErrSessionExpired is returned when attempting to use an expired session.
	ErrSessionExpired = errors.New("session has expired")

	// ErrInvalidRefreshToken is returned when a refresh token is malformed.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// ValidationError reports a user-correctable problem with one input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// IsConflict reports whether err is a uniqueness conflict the caller can fix.
func IsConflict(err error) bool {
	return errors.Is(err, ErrUsernameTaken) || errors.Is(err, ErrEmailAlreadyExists)
}
