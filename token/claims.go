package token

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity payload embedded in every signed token.
// Both fields must be non-empty; Email is the stable lookup key
// shared with the credential store.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// VerificationClaims is the payload of the signed wrapper around a
// persisted verification token. The wrapper is what gets emailed; the
// store row remains authoritative.
type VerificationClaims struct {
	Token string `json:"token"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthTokens is the access/refresh pair returned on successful
// authentication.
type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
