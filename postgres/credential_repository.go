package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/tunebase/auth-service/credentials"
	"github.com/tunebase/auth-service/internal/apperrors"
)

var _ credentials.VerificationTokenRepo = (*VerificationTokenRepo)(nil)

type VerificationTokenRepo struct {
	db *DB
}

func NewVerificationTokenRepo(db *DB) *VerificationTokenRepo {
	return &VerificationTokenRepo{db: db}
}

func (r *VerificationTokenRepo) Find(ctx context.Context, email string) (*credentials.VerificationToken, error) {
	query := `
		SELECT email, token, expires
		FROM verification_tokens
		WHERE email = $1`

	row := &credentials.VerificationToken{}
	err := r.db.pool.QueryRow(ctx, query, email).Scan(&row.Email, &row.Token, &row.Expires)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, errors.Wrap(err, "[VerificationTokenRepo.Find] scan")
	}
	return row, nil
}

func (r *VerificationTokenRepo) DeleteByEmail(ctx context.Context, email string) error {
	_, err := r.db.pool.Exec(ctx, `DELETE FROM verification_tokens WHERE email = $1`, email)
	if err != nil {
		return errors.Wrap(err, "[VerificationTokenRepo.DeleteByEmail] exec")
	}
	return nil
}

func (r *VerificationTokenRepo) Create(ctx context.Context, token *credentials.VerificationToken) error {
	query := `
		INSERT INTO verification_tokens (email, token, expires)
		VALUES ($1, $2, $3)`

	_, err := r.db.pool.Exec(ctx, query, token.Email, token.Token, token.Expires)
	if err != nil {
		return errors.Wrap(err, "[VerificationTokenRepo.Create] exec")
	}
	return nil
}

// Consume deletes the row only when the token matches and has not expired,
// in one statement, so two concurrent consumers cannot both succeed.
func (r *VerificationTokenRepo) Consume(ctx context.Context, email, token string, now time.Time) (bool, error) {
	query := `
		DELETE FROM verification_tokens
		WHERE email = $1 AND token = $2 AND expires > $3`

	tag, err := r.db.pool.Exec(ctx, query, email, token, now)
	if err != nil {
		return false, errors.Wrap(err, "[VerificationTokenRepo.Consume] exec")
	}
	return tag.RowsAffected() > 0, nil
}

var _ credentials.OTPRepo = (*OTPRepo)(nil)

type OTPRepo struct {
	db *DB
}

func NewOTPRepo(db *DB) *OTPRepo {
	return &OTPRepo{db: db}
}

func (r *OTPRepo) DeleteByEmail(ctx context.Context, email string) error {
	_, err := r.db.pool.Exec(ctx, `DELETE FROM otps WHERE email = $1`, email)
	if err != nil {
		return errors.Wrap(err, "[OTPRepo.DeleteByEmail] exec")
	}
	return nil
}

func (r *OTPRepo) Create(ctx context.Context, otp *credentials.OTP) error {
	query := `
		INSERT INTO otps (email, code, expires)
		VALUES ($1, $2, $3)`

	_, err := r.db.pool.Exec(ctx, query, otp.Email, otp.Code, otp.Expires)
	if err != nil {
		return errors.Wrap(err, "[OTPRepo.Create] exec")
	}
	return nil
}

// Consume is the conditional compare-and-delete guarding against
// double-spend of a code: the row is gone the moment any one verification
// succeeds.
func (r *OTPRepo) Consume(ctx context.Context, email, code string, now time.Time) (bool, error) {
	query := `
		DELETE FROM otps
		WHERE email = $1 AND code = $2 AND expires > $3`

	tag, err := r.db.pool.Exec(ctx, query, email, code, now)
	if err != nil {
		return false, errors.Wrap(err, "[OTPRepo.Consume] exec")
	}
	return tag.RowsAffected() > 0, nil
}
