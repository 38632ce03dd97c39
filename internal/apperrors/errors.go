package apperrors

import "errors"

// Common error kinds for the credential lifecycle service
var (
	// Token errors
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")

	// Credential store errors
	ErrNotFound = errors.New("not found")
	ErrStore    = errors.New("store operation failed")

	// Mail delivery errors
	ErrDelivery = errors.New("mail delivery failed")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("account does not exist")
	ErrUserExists         = errors.New("account already exists")
	ErrUserNotVerified    = errors.New("account is not verified")
)

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
