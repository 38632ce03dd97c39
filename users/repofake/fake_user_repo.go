package userrepofake

import (
	"context"
	"sync"
	"time"

	"github.com/tunebase/auth-service/internal/apperrors"
	"github.com/tunebase/auth-service/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	byEmail map[string]*users.User
	byID    map[string]string // user ID to email
	lock    sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		byEmail: make(map[string]*users.User),
		byID:    make(map[string]string),
	}
}

func (r *FakeUserRepo) Create(ctx context.Context, user *users.User) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return apperrors.ErrUserExists
	}
	r.store(user)
	return nil
}

func (r *FakeUserRepo) Upsert(ctx context.Context, user *users.User) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.store(user)
	return nil
}

func (r *FakeUserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	user, ok := r.byEmail[email]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *FakeUserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	email, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *r.byEmail[email]
	return &copied, nil
}

func (r *FakeUserRepo) SetVerified(ctx context.Context, email string, verified bool) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	user, ok := r.byEmail[email]
	if !ok {
		return apperrors.ErrNotFound
	}
	user.Verified = verified
	if verified && user.VerifiedAt == nil {
		now := time.Now()
		user.VerifiedAt = &now
	}
	return nil
}

func (r *FakeUserRepo) store(user *users.User) {
	copied := *user
	r.byEmail[copied.Email] = &copied
	r.byID[copied.ID] = copied.Email
}
