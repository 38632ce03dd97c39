package sessions

import (
	"context"
	"time"
)

type Repo interface {
	// Create records a session row for a freshly issued refresh token
	Create(ctx context.Context, session *Session) error

	// ListByUserID returns every recorded session for a user
	ListByUserID(ctx context.Context, userID string) ([]*Session, error)

	// DeleteExpired removes sessions whose expiry has passed
	DeleteExpired(ctx context.Context, now time.Time) error
}
