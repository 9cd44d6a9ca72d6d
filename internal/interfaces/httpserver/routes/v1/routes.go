package v1

import (
	"github.com/gin-gonic/gin"

	"jan-server/services/media-attach/internal/interfaces/httpserver/handlers"
	"jan-server/services/media-attach/internal/interfaces/httpserver/middlewares"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers  *handlers.Provider
	authToken string
}

func NewRoutes(provider *handlers.Provider, authToken string) *Routes {
	return &Routes{handlers: provider, authToken: authToken}
}

// Register attaches all v1 routes under the /v1 prefix.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/v1", middlewares.BearerAuth(r.authToken))
	group.POST("/events/s3", r.handlers.Events.Receive)
}
