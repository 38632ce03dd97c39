package credentials

import (
	"context"
	"time"
)

// VerificationTokenRepo manages persisted email-verification tokens.
type VerificationTokenRepo interface {
	// Find returns the live verification token row for an email
	Find(ctx context.Context, email string) (*VerificationToken, error)

	// DeleteByEmail removes every verification token row for an email
	DeleteByEmail(ctx context.Context, email string) error

	// Create inserts a fresh verification token row
	Create(ctx context.Context, token *VerificationToken) error

	// Consume atomically deletes the row iff it exists with exactly this
	// token and has not expired at `now`. Returns whether a row was
	// consumed. Verification and invalidation are a single operation so
	// concurrent consumers cannot both succeed.
	Consume(ctx context.Context, email, token string, now time.Time) (bool, error)
}

// OTPRepo manages persisted one-time numeric codes.
type OTPRepo interface {
	// DeleteByEmail removes every OTP row for an email
	DeleteByEmail(ctx context.Context, email string) error

	// Create inserts a fresh OTP row
	Create(ctx context.Context, otp *OTP) error

	// Consume atomically deletes the row iff it exists with exactly this
	// code and has not expired at `now`. Returns whether a row was
	// consumed, guaranteeing a code is spendable at most once even under
	// concurrent verification attempts.
	Consume(ctx context.Context, email, code string, now time.Time) (bool, error)
}
