package user

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

type Servicer interface {
	Register(ctx context.Context, email, password string) (int, error)
	Authenticate(ctx context.Context, email, password string) (User, error)
}

type Service struct {
	repo      Repository
	validator Validator
	log       *slog.Logger
}

func NewService(repo Repository, validator Validator, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		log:       log.With("component", "user_service"),
	}
}

func (s *Service) Register(ctx context.Context, email, password string) (int, error) {
	if err := s.validator.ValidateRegister(email, password); err != nil {
		s.log.Debug("registration validation failed", "email", email, "error", err)
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Create(ctx, email, string(hash))
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	if err := s.validator.ValidateEmail(email); err != nil {
		return User{}, ErrInvalidAuth
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return User{}, ErrInvalidAuth
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidAuth
	}

	return u, nil
}
