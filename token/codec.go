package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tunebase/auth-service/internal/apperrors"
)

// Codec turns a claims value into an opaque tamper-evident string and back,
// using a caller-supplied secret and expiry. Signing and verification are
// pure computations; the codec holds no secrets of its own.
type Codec struct {
	nowFunc func() time.Time
}

type CodecOption func(*Codec)

// WithCodecNowFunc sets the clock (primarily for testing)
func WithCodecNowFunc(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowFunc = now
	}
}

func NewCodec(options ...CodecOption) *Codec {
	c := &Codec{nowFunc: time.Now}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Sign encodes the identity claims into an HS256-signed token expiring
// after ttl.
func (c *Codec) Sign(claims Claims, secret []byte, ttl time.Duration) (string, error) {
	claims.RegisteredClaims = c.registeredClaims(ttl)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "[Codec.Sign] SignedString")
	}
	return signed, nil
}

// Verify parses and validates a signed token. It fails with
// apperrors.ErrTokenExpired when the signature is good but the embedded
// expiration has passed, and with apperrors.ErrInvalidToken for a signature
// mismatch or structurally invalid input. A token signed with a different
// secret never verifies.
func (c *Codec) Verify(raw string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	if err := c.parse(raw, claims, secret); err != nil {
		return nil, err
	}
	if claims.UserID == "" || claims.Email == "" {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// SignVerification signs the {token, email} wrapper emailed during account
// verification.
func (c *Codec) SignVerification(claims VerificationClaims, secret []byte, ttl time.Duration) (string, error) {
	claims.RegisteredClaims = c.registeredClaims(ttl)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "[Codec.SignVerification] SignedString")
	}
	return signed, nil
}

// VerifyVerification validates an emailed verification wrapper. The result
// is only a tamper check; callers must still consult the credential store.
func (c *Codec) VerifyVerification(raw string, secret []byte) (*VerificationClaims, error) {
	claims := &VerificationClaims{}
	if err := c.parse(raw, claims, secret); err != nil {
		return nil, err
	}
	if claims.Token == "" || claims.Email == "" {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

func (c *Codec) registeredClaims(ttl time.Duration) jwt.RegisteredClaims {
	now := c.nowFunc()
	return jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.New().String(),
	}
}

func (c *Codec) parse(raw string, claims jwt.Claims, secret []byte) error {
	_, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.nowFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		// A bad signature is reported as invalid even when the embedded
		// expiry has also passed.
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return apperrors.ErrInvalidToken
		}
		if errors.Is(err, jwt.ErrTokenExpired) {
			return apperrors.ErrTokenExpired
		}
		return apperrors.ErrInvalidToken
	}
	return nil
}
