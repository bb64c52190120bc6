// Package api wires the HTTP surface of the remote store: authentication,
// saved-place snapshot/upload, place-cache upsert, note updates and deletes.
package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	healthAPI "spot/internal/app/server/api/http/health"
	"spot/internal/app/server/api/http/middleware"
	"spot/internal/app/server/api/http/middleware/auth"
	"spot/internal/app/server/api/http/middleware/logger"
	placeAPI "spot/internal/app/server/api/http/place"
	userAPI "spot/internal/app/server/api/http/user"
	"spot/internal/domain/place"
	"spot/internal/domain/session"
	"spot/internal/domain/user"
	"spot/internal/infrastructure/storage/postgres"
)

type Handlers struct {
	Health *healthAPI.Handler
	User   *userAPI.Handler
	Place  *placeAPI.Handler
}

// New creates a *chi.Mux with all operations registered through huma.
func New(storage *postgres.Storage, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("Spot API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, config)

	h := handlers(storage, log)
	h.Health.SetupRoutes(API)
	h.User.SetupRoutes(API)
	h.Place.SetupRoutes(API)

	return mux
}

func handlers(storage *postgres.Storage, log *slog.Logger) *Handlers {
	sessionRepo := postgres.NewSessionRepository(storage, log)
	sessionService := session.NewService(sessionRepo, log)
	authMW := auth.New(sessionService, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	userRepo := postgres.NewUserRepository(storage, log)
	userService := user.NewService(userRepo, user.NewValidator(), log)
	middlewares.Add(loggerMW.Middleware())
	userHandler := userAPI.NewHandler(userService, sessionService, log, middlewares.GetAllAndClear())

	placeRepo := postgres.NewPlaceRepository(storage, log)
	cacheRepo := postgres.NewCacheRepository(storage, log)
	placeService := place.NewService(placeRepo, cacheRepo, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	placeHandler := placeAPI.NewHandler(placeService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health: healthHandler,
		User:   userHandler,
		Place:  placeHandler,
	}
}
