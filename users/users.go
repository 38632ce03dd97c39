package users

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID           string     `json:"id,omitempty"`            // Unique identifier for the user
	Email        string     `json:"email,omitempty"`         // User's email address, unique lookup key
	Name         string     `json:"name,omitempty"`          // Display name
	Image        string     `json:"image,omitempty"`         // Avatar URL (populated by federated login)
	PasswordHash string     `json:"-"`                       // Hashed password - never serialize. Empty for passwordless/federated accounts
	Verified     bool       `json:"verified,omitempty"`      // Has the user proven control of their email address
	VerifiedAt   *time.Time `json:"emailVerified,omitempty"` // When the email address was verified
	CreatedAt    time.Time  `json:"createdAt,omitempty"`     // When the account was created
}

// HasPassword reports whether the account can log in with a password at all.
// Federated and passwordless-only accounts have no hash.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
