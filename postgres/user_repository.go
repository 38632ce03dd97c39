package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/tunebase/auth-service/internal/apperrors"
	"github.com/tunebase/auth-service/users"
)

var _ users.UserRepo = (*UserRepo)(nil)

type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *users.User) error {
	query := `
		INSERT INTO users (id, email, name, image, password_hash, verified, verified_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.pool.Exec(ctx, query,
		user.ID, user.Email, user.Name, user.Image, user.PasswordHash,
		user.Verified, user.VerifiedAt, user.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "[UserRepo.Create] exec")
	}
	return nil
}

func (r *UserRepo) Upsert(ctx context.Context, user *users.User) error {
	query := `
		INSERT INTO users (id, email, name, image, password_hash, verified, verified_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			image = EXCLUDED.image,
			password_hash = EXCLUDED.password_hash,
			verified = EXCLUDED.verified,
			verified_at = EXCLUDED.verified_at`

	_, err := r.db.pool.Exec(ctx, query,
		user.ID, user.Email, user.Name, user.Image, user.PasswordHash,
		user.Verified, user.VerifiedAt, user.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "[UserRepo.Upsert] exec")
	}
	return nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.get(ctx, "email", email)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	return r.get(ctx, "id", id)
}

func (r *UserRepo) SetVerified(ctx context.Context, email string, verified bool) error {
	query := `
		UPDATE users
		SET verified = $2,
		    verified_at = CASE WHEN $2 THEN COALESCE(verified_at, $3) ELSE NULL END
		WHERE email = $1`

	tag, err := r.db.pool.Exec(ctx, query, email, verified, time.Now())
	if err != nil {
		return errors.Wrap(err, "[UserRepo.SetVerified] exec")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepo) get(ctx context.Context, column, value string) (*users.User, error) {
	query := `
		SELECT id, email, name, image, password_hash, verified, verified_at, created_at
		FROM users
		WHERE ` + column + ` = $1`

	user := &users.User{}
	err := r.db.pool.QueryRow(ctx, query, value).Scan(
		&user.ID, &user.Email, &user.Name, &user.Image, &user.PasswordHash,
		&user.Verified, &user.VerifiedAt, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, errors.Wrap(err, "[UserRepo.get] scan")
	}
	return user, nil
}
