package sessionrepofake

import (
	"context"
	"sync"
	"time"

	"github.com/tunebase/auth-service/sessions"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

type FakeSessionRepo struct {
	rows []*sessions.Session
	lock sync.RWMutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{}
}

func (r *FakeSessionRepo) Create(ctx context.Context, session *sessions.Session) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	copied := *session
	r.rows = append(r.rows, &copied)
	return nil
}

func (r *FakeSessionRepo) ListByUserID(ctx context.Context, userID string) ([]*sessions.Session, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	var result []*sessions.Session
	for _, row := range r.rows {
		if row.UserID == userID {
			copied := *row
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *FakeSessionRepo) DeleteExpired(ctx context.Context, now time.Time) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.Expires.After(now) {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}
