package credentialrepofake

import (
	"context"
	"sync"
	"time"

	"github.com/tunebase/auth-service/credentials"
	"github.com/tunebase/auth-service/internal/apperrors"
)

var _ credentials.VerificationTokenRepo = (*FakeVerificationTokenRepo)(nil)

type FakeVerificationTokenRepo struct {
	rows map[string]*credentials.VerificationToken // keyed by email
	lock sync.RWMutex
}

func NewFakeVerificationTokenRepo() *FakeVerificationTokenRepo {
	return &FakeVerificationTokenRepo{
		rows: make(map[string]*credentials.VerificationToken),
	}
}

func (r *FakeVerificationTokenRepo) Find(ctx context.Context, email string) (*credentials.VerificationToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	row, ok := r.rows[email]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *row
	return &copied, nil
}

func (r *FakeVerificationTokenRepo) DeleteByEmail(ctx context.Context, email string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.rows, email)
	return nil
}

func (r *FakeVerificationTokenRepo) Create(ctx context.Context, token *credentials.VerificationToken) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	copied := *token
	r.rows[token.Email] = &copied
	return nil
}

func (r *FakeVerificationTokenRepo) Consume(ctx context.Context, email, token string, now time.Time) (bool, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	row, ok := r.rows[email]
	if !ok || row.Token != token || !row.Expires.After(now) {
		return false, nil
	}
	delete(r.rows, email)
	return true, nil
}

var _ credentials.OTPRepo = (*FakeOTPRepo)(nil)

type FakeOTPRepo struct {
	rows map[string]*credentials.OTP // keyed by email
	lock sync.RWMutex
}

func NewFakeOTPRepo() *FakeOTPRepo {
	return &FakeOTPRepo{
		rows: make(map[string]*credentials.OTP),
	}
}

func (r *FakeOTPRepo) DeleteByEmail(ctx context.Context, email string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.rows, email)
	return nil
}

func (r *FakeOTPRepo) Create(ctx context.Context, otp *credentials.OTP) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	copied := *otp
	r.rows[otp.Email] = &copied
	return nil
}

func (r *FakeOTPRepo) Consume(ctx context.Context, email, code string, now time.Time) (bool, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	row, ok := r.rows[email]
	if !ok || row.Code != code || !row.Expires.After(now) {
		return false, nil
	}
	delete(r.rows, email)
	return true, nil
}
