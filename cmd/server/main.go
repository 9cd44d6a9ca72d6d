package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"jan-server/services/media-attach/internal/app"
	"jan-server/services/media-attach/internal/config"
	"jan-server/services/media-attach/internal/infrastructure/awsclients"
	"jan-server/services/media-attach/internal/infrastructure/logger"
	"jan-server/services/media-attach/internal/infrastructure/observability"
	"jan-server/services/media-attach/internal/interfaces/httpserver"
)

// Application runs the webhook receiver for S3-compatible stores that push
// notifications over HTTP instead of invoking Lambda.
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	clients := awsclients.New(cfg)
	store, err := app.NewStore(ctx, cfg, clients, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize store")
	}
	defer store.Close()

	svc, err := app.NewService(cfg, clients, store, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize service")
	}

	httpServer := httpserver.New(cfg, log, svc, store.Ready)
	if err := NewApplication(httpServer, log).Start(ctx); err != nil {
		log.Error().Err(err).Msg("application stopped with error")
		return
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
