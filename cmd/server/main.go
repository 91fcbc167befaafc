package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"parcel-sorting-service/internal/api"
	"parcel-sorting-service/internal/app"
	"parcel-sorting-service/internal/config"
	"parcel-sorting-service/internal/platform/logging"
	"parcel-sorting-service/internal/platform/metrics"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// main is the application composition root.
// It wires concrete adapters behind ports and starts the HTTP server.
func main() {
	dotenvErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.LogLevel, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if dotenvErr != nil {
		logger.Info("no .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	comps, err := app.Build(ctx, cfg, cfg.ParcelsFile, logger)
	if err != nil {
		logger.Fatal("setup failed", zap.Error(err))
	}
	defer func() { _ = comps.Close() }()

	metrics.RegisterDefault()

	router := api.NewRouter(api.RouterDeps{
		Depots:       comps.Depots,
		Source:       comps.Source,
		Syncer:       comps.Syncer,
		Store:        comps.Store,
		HealthChecks: comps.HealthChecks,
		Logger:       logger,
	})

	// A run waits on the route service with retries, so writes get a long timeout.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("server listening", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
