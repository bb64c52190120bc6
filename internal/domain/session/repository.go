package session

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidSession = errors.New("invalid or expired session")

type Repository interface {
	Create(ctx context.Context, userID int, tokenHash string, expiresAt time.Time) error
	// Validate resolves a token hash to a user id, or ErrInvalidSession.
	Validate(ctx context.Context, tokenHash string) (int, error)
}
