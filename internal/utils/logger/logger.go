package logger

import (
	"os"

	"golang.org/x/exp/slog"

	"spot/internal/app/server/config"
)

// New returns a slog.Logger tuned for the environment: pretty text at debug
// level for local development, JSON for dev, JSON at info level for prod.
func New(env string) *slog.Logger {
	switch env {
	case config.EnvDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	case config.EnvProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	default:
		return setupPrettySlog()
	}
}

func setupPrettySlog() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
