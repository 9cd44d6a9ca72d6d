package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"

	"jan-server/services/media-attach/internal/app"
	"jan-server/services/media-attach/internal/config"
	"jan-server/services/media-attach/internal/infrastructure/awsclients"
	"jan-server/services/media-attach/internal/infrastructure/logger"
	"jan-server/services/media-attach/internal/infrastructure/observability"
	"jan-server/services/media-attach/internal/interfaces/lambdahandler"
)

func main() {
	bootLog := zerolog.New(os.Stderr)
	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log, err := logger.New(cfg)
	if err != nil {
		bootLog.Fatal().Err(err).Msg("initialize logger")
	}

	ctx := context.Background()
	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}

	// Clients are built on first use and shared by every warm invocation.
	clients := awsclients.New(cfg)

	store, err := app.NewStore(ctx, cfg, clients, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize store")
	}

	svc, err := app.NewService(cfg, clients, store, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize service")
	}

	handler := lambdahandler.New(svc, log)
	lambda.StartWithOptions(handler.Invoke, lambda.WithEnableSIGTERM(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
		store.Close()
	}))
}
