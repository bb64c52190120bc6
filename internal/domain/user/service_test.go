package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, email, passwordHash string) (int, error) {
	args := m.Called(ctx, email, passwordHash)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(User), args.Error(1)
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid", email: "ana@example.com", password: "sup3rsecret"},
		{name: "bad email", email: "nope", password: "sup3rsecret", wantErr: ErrInvalidInput},
		{name: "short password", email: "ana@example.com", password: "short", wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			service := NewService(repo, NewValidator(), slog.Default())

			if tt.wantErr == nil {
				repo.On("Create", mock.Anything, tt.email, mock.Anything).Return(1, nil)
			}

			id, err := service.Register(context.Background(), tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "Create")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, 1, id)
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("sup3rsecret"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	repo := new(MockRepository)
	service := NewService(repo, NewValidator(), slog.Default())

	repo.On("FindByEmail", mock.Anything, "ana@example.com").
		Return(User{ID: 1, Email: "ana@example.com", PasswordHash: string(hash)}, nil)

	u, err := service.Authenticate(context.Background(), "ana@example.com", "sup3rsecret")
	assert.NoError(t, err)
	assert.Equal(t, 1, u.ID)

	_, err = service.Authenticate(context.Background(), "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidAuth)
}

func TestService_Authenticate_UnknownUser(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, NewValidator(), slog.Default())

	repo.On("FindByEmail", mock.Anything, "ghost@example.com").
		Return(User{}, ErrNotFound)

	_, err := service.Authenticate(context.Background(), "ghost@example.com", "whatever")
	// Credential probing must not reveal whether the account exists.
	assert.ErrorIs(t, err, ErrInvalidAuth)
}
