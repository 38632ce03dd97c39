package postgres

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/tunebase/auth-service/sessions"
)

var _ sessions.Repo = (*SessionRepo)(nil)

type SessionRepo struct {
	db *DB
}

func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) Create(ctx context.Context, session *sessions.Session) error {
	query := `
		INSERT INTO sessions (user_id, session_token, expires)
		VALUES ($1, $2, $3)`

	_, err := r.db.pool.Exec(ctx, query, session.UserID, session.SessionToken, session.Expires)
	if err != nil {
		return errors.Wrap(err, "[SessionRepo.Create] exec")
	}
	return nil
}

func (r *SessionRepo) ListByUserID(ctx context.Context, userID string) ([]*sessions.Session, error) {
	query := `
		SELECT user_id, session_token, expires
		FROM sessions
		WHERE user_id = $1
		ORDER BY expires`

	rows, err := r.db.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, errors.Wrap(err, "[SessionRepo.ListByUserID] query")
	}
	defer rows.Close()

	var result []*sessions.Session
	for rows.Next() {
		session := &sessions.Session{}
		if err := rows.Scan(&session.UserID, &session.SessionToken, &session.Expires); err != nil {
			return nil, errors.Wrap(err, "[SessionRepo.ListByUserID] scan")
		}
		result = append(result, session)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "[SessionRepo.ListByUserID] rows")
	}
	return result, nil
}

func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) error {
	_, err := r.db.pool.Exec(ctx, `DELETE FROM sessions WHERE expires <= $1`, now)
	if err != nil {
		return errors.Wrap(err, "[SessionRepo.DeleteExpired] exec")
	}
	return nil
}
