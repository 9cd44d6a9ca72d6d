package handlers

import "github.com/rs/zerolog"

// Provider groups the HTTP handlers registered by the routes package.
type Provider struct {
	Events *EventHandler
}

func NewProvider(dispatcher Dispatcher, log zerolog.Logger) *Provider {
	return &Provider{
		Events: NewEventHandler(dispatcher, log),
	}
}
