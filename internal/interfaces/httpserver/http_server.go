package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"jan-server/services/media-attach/internal/config"
	"jan-server/services/media-attach/internal/interfaces/httpserver/handlers"
	"jan-server/services/media-attach/internal/interfaces/httpserver/middlewares"
	v1 "jan-server/services/media-attach/internal/interfaces/httpserver/routes/v1"
)

// ReadinessCheck reports whether the backing store can take writes.
type ReadinessCheck func(ctx context.Context) error

// HttpServer wraps the gin engine with graceful shutdown helpers.
type HttpServer struct {
	cfg    *config.Config
	engine *gin.Engine
	log    zerolog.Logger
}

// New constructs the webhook server with default middleware and routes.
// A nil ready check always reports ready.
func New(cfg *config.Config, log zerolog.Logger, dispatcher handlers.Dispatcher, ready ReadinessCheck) *HttpServer {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middlewares.RequestID(),
		middlewares.Tracing(cfg.ServiceName),
		middlewares.RequestLogger(log),
	)

	routes := v1.NewRoutes(handlers.NewProvider(dispatcher, log), cfg.WebhookAuthToken)
	registerCoreRoutes(engine, cfg, routes, ready)

	return &HttpServer{
		cfg:    cfg,
		engine: engine,
		log:    log,
	}
}

// Handler exposes the engine for tests.
func (s *HttpServer) Handler() http.Handler {
	return s.engine
}

// Run starts the HTTP listener and handles graceful shutdown via context cancellation.
func (s *HttpServer) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr()).Msg("media-attach HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("context cancelled, shutting down HTTP server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func registerCoreRoutes(engine *gin.Engine, cfg *config.Config, routes *v1.Routes, ready ReadinessCheck) {
	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": cfg.ServiceName, "status": "ok"})
	})
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	engine.GET("/readyz", func(c *gin.Context) {
		if ready != nil {
			if err := ready(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.Register(engine.Group("/"))
}
