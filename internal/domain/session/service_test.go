package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, userID int, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockRepository) Validate(ctx context.Context, tokenHash string) (int, error) {
	args := m.Called(ctx, tokenHash)
	return args.Int(0), args.Error(1)
}

func TestService_CreateAndValidate(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, slog.Default())

	var storedHash string
	repo.On("Create", mock.Anything, 1, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			storedHash = args.String(2)
		}).
		Return(nil)

	token, err := service.Create(context.Background(), 1)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	// The raw token is never what reaches the repository.
	assert.NotEqual(t, token, storedHash)

	repo.On("Validate", mock.Anything, storedHash).Return(1, nil)

	userID, err := service.Validate(context.Background(), token)
	assert.NoError(t, err)
	assert.Equal(t, 1, userID)
}

func TestService_Validate_BadToken(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, slog.Default())

	repo.On("Validate", mock.Anything, mock.Anything).Return(0, ErrInvalidSession)

	_, err := service.Validate(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidSession)
}
