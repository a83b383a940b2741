package auth

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Credential failures are deliberately indistinguishable: the client never
	// learns whether the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")

	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrTokenNotFound       = errors.New("token not found")
	ErrTokenNotActive      = errors.New("token is already revoked")

	ErrOTPExpired         = errors.New("otp expired")
	ErrInvalidOTP         = errors.New("invalid otp")
	ErrTooManyOTPAttempts = errors.New("too many attempts")

	ErrUserNotFound  = errors.New("user not found")
	ErrEmailRequired = errors.New("an email address is required")

	ErrMailDispatch = errors.New("failed to send otp email")
)

// ValidationError carries per-field failures so the handler can return them
// in the error details.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, tag := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, tag))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
