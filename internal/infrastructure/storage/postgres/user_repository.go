package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/exp/slog"

	"spot/internal/domain/user"
)

const uniqueViolation = "23505"

type UserRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewUserRepository(db *Storage, log *slog.Logger) *UserRepository {
	return &UserRepository{
		db:  db,
		log: log.With("component", "user_repository"),
	}
}

func (r *UserRepository) Create(ctx context.Context, email, passwordHash string) (int, error) {
	const query = `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id`

	var id int
	err := r.db.Pool().QueryRow(ctx, query, email, passwordHash).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, user.ErrExists
		}
		r.log.Error("failed to create user", "email", email, "error", err)
		return 0, fmt.Errorf("create user: %w", err)
	}

	return id, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (user.User, error) {
	const query = `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE email = $1`

	var u user.User
	err := r.db.Pool().QueryRow(ctx, query, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		r.log.Error("failed to find user", "email", email, "error", err)
		return user.User{}, fmt.Errorf("find user: %w", err)
	}

	return u, nil
}
