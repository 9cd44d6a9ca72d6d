//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"jan-server/services/media-attach/internal/app"
	"jan-server/services/media-attach/internal/config"
	"jan-server/services/media-attach/internal/domain/attachment"
	"jan-server/services/media-attach/internal/infrastructure/awsclients"
	"jan-server/services/media-attach/internal/infrastructure/logger"
	"jan-server/services/media-attach/internal/interfaces/httpserver"
	"jan-server/services/media-attach/internal/interfaces/httpserver/handlers"
)

var attachSet = wire.NewSet(
	awsclients.New,
	app.NewStore,
	app.NewService,
	wire.Bind(new(handlers.Dispatcher), new(*attachment.Service)),
	provideReadiness,
)

// BuildApplication assembles the webhook server with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		attachSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func provideReadiness(store *app.Store) httpserver.ReadinessCheck {
	return store.Ready
}
