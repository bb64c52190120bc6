package user

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"spot/internal/domain/session"
	"spot/internal/domain/user"
)

type Handler struct {
	users      user.Servicer
	sessions   session.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(users user.Servicer, sessions session.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		users:      users,
		sessions:   sessions,
		log:        log.With("component", "user_handler"),
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.registerOp(), h.register)
	huma.Register(api, h.loginOp(), h.login)
}

func (h *Handler) register(ctx context.Context, input *registerInput) (*authOutput, error) {
	userID, err := h.users.Register(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrExists):
			return nil, huma.Error409Conflict("account already registered")
		case errors.Is(err, user.ErrInvalidInput):
			return nil, huma.Error422UnprocessableEntity(err.Error())
		default:
			h.log.Error("registration failed", "error", err)
			return nil, huma.Error500InternalServerError("registration failed")
		}
	}

	token, err := h.sessions.Create(ctx, userID)
	if err != nil {
		h.log.Error("failed to create session after registration", "error", err)
		return nil, huma.Error500InternalServerError("registration failed")
	}

	return &authOutput{Body: authResponse{
		Status: "Ok",
		UserID: userID,
		Token:  token,
	}}, nil
}

func (h *Handler) login(ctx context.Context, input *loginInput) (*authOutput, error) {
	u, err := h.users.Authenticate(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidAuth) {
			return nil, huma.Error401Unauthorized("invalid credentials")
		}
		h.log.Error("authentication failed", "error", err)
		return nil, huma.Error500InternalServerError("authentication failed")
	}

	token, err := h.sessions.Create(ctx, u.ID)
	if err != nil {
		h.log.Error("failed to create session", "user_id", u.ID, "error", err)
		return nil, huma.Error500InternalServerError("authentication failed")
	}

	return &authOutput{Body: authResponse{
		Status: "Ok",
		UserID: u.ID,
		Token:  token,
	}}, nil
}
