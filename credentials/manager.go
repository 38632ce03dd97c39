package credentials

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/pkg/errors"

	"github.com/tunebase/auth-service/internal/apperrors"
	"github.com/tunebase/auth-service/token"
)

const verificationTokenLength = 32 // bytes of entropy in the stored credential

// Manager orchestrates issuance and consumption of one-time credentials:
// email-verification tokens and OTP login codes. The credential store is
// authoritative for both — a signed wrapper whose persisted row has expired
// or vanished never verifies. Issuing replaces any prior credential for the
// same email, so at most one is live at a time.
type Manager struct {
	verificationRepo   VerificationTokenRepo
	otpRepo            OTPRepo
	codec              *token.Codec
	verificationSecret []byte
	verificationExpiry time.Duration
	otpExpiry          time.Duration
	otpLength          int
	nowFunc            func() time.Time
}

type ManagerOption func(*Manager)

// WithExpiry overrides the verification-token and OTP lifetimes.
func WithExpiry(verificationExpiry, otpExpiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.verificationExpiry = verificationExpiry
		m.otpExpiry = otpExpiry
	}
}

// WithOTPLength sets the number of digits in generated OTP codes.
func WithOTPLength(length int) ManagerOption {
	return func(m *Manager) {
		m.otpLength = length
	}
}

// WithNowFunc sets the clock (primarily for testing)
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func NewManager(verificationRepo VerificationTokenRepo, otpRepo OTPRepo, verificationSecret string, options ...ManagerOption) (*Manager, error) {
	if verificationRepo == nil {
		return nil, errors.New("[credentials.NewManager] verification token repo is required")
	}
	if otpRepo == nil {
		return nil, errors.New("[credentials.NewManager] OTP repo is required")
	}
	if verificationSecret == "" {
		return nil, errors.New("[credentials.NewManager] verification secret is required")
	}

	m := &Manager{
		verificationRepo:   verificationRepo,
		otpRepo:            otpRepo,
		verificationSecret: []byte(verificationSecret),
		verificationExpiry: 10 * time.Minute,
		otpExpiry:          5 * time.Minute,
		otpLength:          6,
		nowFunc:            time.Now,
	}

	for _, opt := range options {
		opt(m)
	}

	m.codec = token.NewCodec(token.WithCodecNowFunc(func() time.Time { return m.nowFunc() }))
	return m, nil
}

// IssueVerificationToken replaces any live verification token for the email
// with a fresh one and returns the signed wrapper to hand to the mail
// collaborator. The delete-then-insert invalidates any token still in
// flight. Mail is not sent here.
func (m *Manager) IssueVerificationToken(ctx context.Context, email string) (string, error) {
	tokenBytes := make([]byte, verificationTokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", errors.Wrap(err, "[Manager.IssueVerificationToken] rand.Read")
	}
	tokenStr := hex.EncodeToString(tokenBytes)

	if err := m.verificationRepo.DeleteByEmail(ctx, email); err != nil {
		return "", storeErr("Manager.IssueVerificationToken delete prior", err)
	}
	if err := m.verificationRepo.Create(ctx, &VerificationToken{
		Email:   email,
		Token:   tokenStr,
		Expires: m.nowFunc().Add(m.verificationExpiry),
	}); err != nil {
		return "", storeErr("Manager.IssueVerificationToken create", err)
	}

	signed, err := m.codec.SignVerification(
		token.VerificationClaims{Token: tokenStr, Email: email},
		m.verificationSecret,
		m.verificationExpiry,
	)
	if err != nil {
		return "", errors.Wrap(err, "[Manager.IssueVerificationToken] sign wrapper")
	}
	return signed, nil
}

// ConsumeVerificationToken validates an emailed wrapper token and spends the
// underlying store row, returning the verified email address. The signature
// is only a tamper check: the persisted row decides validity, and
// consumption removes it so the token is single-use.
func (m *Manager) ConsumeVerificationToken(ctx context.Context, signed string) (string, error) {
	claims, err := m.codec.VerifyVerification(signed, m.verificationSecret)
	if err != nil {
		return "", err
	}

	consumed, err := m.verificationRepo.Consume(ctx, claims.Email, claims.Token, m.nowFunc())
	if err != nil {
		return "", storeErr("Manager.ConsumeVerificationToken consume", err)
	}
	if !consumed {
		return "", apperrors.ErrNotFound
	}
	return claims.Email, nil
}

// IssueOTP replaces any live OTP for the email with a freshly generated
// numeric code and returns the raw code for delivery by the mail
// collaborator.
func (m *Manager) IssueOTP(ctx context.Context, email string) (string, error) {
	code, err := m.generateCode()
	if err != nil {
		return "", errors.Wrap(err, "[Manager.IssueOTP] generate code")
	}

	if err := m.otpRepo.DeleteByEmail(ctx, email); err != nil {
		return "", storeErr("Manager.IssueOTP delete prior", err)
	}
	if err := m.otpRepo.Create(ctx, &OTP{
		Email:   email,
		Code:    code,
		Expires: m.nowFunc().Add(m.otpExpiry),
	}); err != nil {
		return "", storeErr("Manager.IssueOTP create", err)
	}
	return code, nil
}

// VerifyOTP checks a submitted code against the live OTP row for the email.
// It returns false, not an error, when no row exists, the row has expired,
// or the code does not match. A successful verification deletes the row in
// the same store operation, so a replayed code fails.
func (m *Manager) VerifyOTP(ctx context.Context, email, submittedCode string) (bool, error) {
	consumed, err := m.otpRepo.Consume(ctx, email, submittedCode, m.nowFunc())
	if err != nil {
		return false, storeErr("Manager.VerifyOTP consume", err)
	}
	return consumed, nil
}

// generateCode draws a uniformly random fixed-length numeric code from
// crypto/rand.
func (m *Manager) generateCode() (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(m.otpLength)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", m.otpLength, n), nil
}

func storeErr(op string, err error) error {
	return errors.Wrapf(apperrors.ErrStore, "[%s] %v", op, err)
}
