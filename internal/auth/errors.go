package auth

import (
	"errors"
	"fmt"
)

// InvalidCredentialsMessage is the exact string returned for both unknown
// email and wrong password. The two cases must be indistinguishable to the
// caller so valid accounts cannot be enumerated.
const InvalidCredentialsMessage = "Invalid email or password"

var (
	ErrInvalidCredentials      = errors.New(InvalidCredentialsMessage)
	ErrTwoFactorRequired       = errors.New("two-factor code required")
	ErrInvalidTwoFactorCode    = errors.New("invalid two-factor code")
	ErrTwoFactorAlreadyEnabled = errors.New("two-factor authentication is already enabled")
	ErrTwoFactorNotEnabled     = errors.New("two-factor authentication is not enabled")
	ErrNoSetupPending          = errors.New("no two-factor setup in progress")
	ErrResetTokenInvalid       = errors.New("invalid or expired reset link")
	ErrUserNotFound            = errors.New("user not found")
	ErrUserExists              = errors.New("user with this email already exists")
)

// RateLimitedError is returned when the per-account attempt limit is
// exhausted. RetryAfter is the number of seconds until the window resets.
type RateLimitedError struct {
	RetryAfter int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("too many attempts, retry in %d seconds", e.RetryAfter)
}
