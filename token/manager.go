package token

import (
	"time"

	"github.com/pkg/errors"
)

// Manager issues and verifies the access/refresh token pair. Access tokens
// are signed with the access secret, refresh tokens with the refresh
// secret; the two secrets are independent keys and tokens are never
// cross-verifiable. The manager is stateless: persisting the Session row
// for an issued refresh token is the caller's responsibility, so issuance
// and persistence failures stay distinguishable.
type Manager struct {
	codec         *Codec
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	nowFunc       func() time.Time
}

type ManagerOption func(*Manager)

// WithTokenExpiry overrides the default access and refresh token lifetimes.
func WithTokenExpiry(accessExpiry, refreshExpiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.accessExpiry = accessExpiry
		m.refreshExpiry = refreshExpiry
	}
}

// WithNowFunc sets the clock (primarily for testing)
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func NewManager(accessSecret, refreshSecret string, options ...ManagerOption) (*Manager, error) {
	if accessSecret == "" {
		return nil, errors.New("[NewManager] access secret is required")
	}
	if refreshSecret == "" {
		return nil, errors.New("[NewManager] refresh secret is required")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("[NewManager] access and refresh secrets must differ")
	}

	m := &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessExpiry:  3 * 24 * time.Hour,
		refreshExpiry: 30 * 24 * time.Hour,
		nowFunc:       time.Now,
	}

	for _, opt := range options {
		opt(m)
	}

	m.codec = NewCodec(WithCodecNowFunc(func() time.Time { return m.nowFunc() }))
	return m, nil
}

// RefreshTokenExpiry reports the configured refresh token lifetime, used by
// callers to stamp the Session row persisted alongside an issued pair.
func (m *Manager) RefreshTokenExpiry() time.Duration {
	return m.refreshExpiry
}

// IssueAuthTokens signs an access and a refresh token from the same claims
// under their respective secrets. Pure function, no store access.
func (m *Manager) IssueAuthTokens(claims Claims) (*AuthTokens, error) {
	accessToken, err := m.codec.Sign(claims, m.accessSecret, m.accessExpiry)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.IssueAuthTokens] access")
	}

	refreshToken, err := m.codec.Sign(claims, m.refreshSecret, m.refreshExpiry)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.IssueAuthTokens] refresh")
	}

	return &AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// VerifyAccessToken validates a bearer access token and returns its claims.
func (m *Manager) VerifyAccessToken(raw string) (*Claims, error) {
	return m.codec.Verify(raw, m.accessSecret)
}

// VerifyRefreshToken validates a refresh token and returns its claims.
func (m *Manager) VerifyRefreshToken(raw string) (*Claims, error) {
	return m.codec.Verify(raw, m.refreshSecret)
}

// RefreshAccessToken verifies a refresh token and, on success, mints a new
// access token carrying the same identity claims and the standard access
// expiry. The refresh token itself is never rotated; it remains usable
// until its own expiry. Verification failures propagate unchanged and no
// new token is issued.
func (m *Manager) RefreshAccessToken(refreshToken string) (string, error) {
	claims, err := m.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}

	accessToken, err := m.codec.Sign(Claims{UserID: claims.UserID, Email: claims.Email}, m.accessSecret, m.accessExpiry)
	if err != nil {
		return "", errors.Wrap(err, "[Manager.RefreshAccessToken] Sign")
	}
	return accessToken, nil
}
