package postgres

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"spot/internal/domain/session"
)

type SessionRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewSessionRepository(db *Storage, log *slog.Logger) *SessionRepository {
	return &SessionRepository{
		db:  db,
		log: log.With("component", "session_repository"),
	}
}

func (r *SessionRepository) Create(ctx context.Context, userID int, tokenHash string, expiresAt time.Time) error {
	const query = `
		INSERT INTO sessions (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)`

	if _, err := r.db.Pool().Exec(ctx, query, userID, tokenHash, expiresAt); err != nil {
		r.log.Error("failed to create session", "user_id", userID, "error", err)
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Validate(ctx context.Context, tokenHash string) (int, error) {
	const query = `
		SELECT user_id FROM sessions
		WHERE token_hash = $1 AND expires_at > NOW()`

	var userID int
	if err := r.db.Pool().QueryRow(ctx, query, tokenHash).Scan(&userID); err != nil {
		return 0, session.ErrInvalidSession
	}
	return userID, nil
}
