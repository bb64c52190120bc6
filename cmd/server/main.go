package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spot/internal/app/server/api"
	"spot/internal/app/server/config"
	"spot/internal/infrastructure/storage/postgres"
	"spot/internal/utils/logger"
)

func main() {
	conf := config.MustLoad()
	log := logger.New(conf.Env)

	storage, err := postgres.New(conf)
	if err != nil {
		log.Error("failed to init storage", "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	mux := api.New(storage, log)

	server := &http.Server{
		Addr:    conf.Server.RunAddress,
		Handler: mux,
	}

	go func() {
		log.Info("server started", "address", conf.Server.RunAddress, "env", conf.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	log.Info("server stopped")
}
