package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jan-server/services/media-attach/internal/domain/attachment"
	"jan-server/services/media-attach/internal/infrastructure/metrics"
	"jan-server/services/media-attach/internal/interfaces/httpserver/middlewares"
	"jan-server/services/media-attach/internal/interfaces/httpserver/responses"
)

const (
	source       = "webhook"
	maxEventSize = 1 << 20
)

// Dispatcher runs the attachment pipeline for one raw notification.
type Dispatcher interface {
	Dispatch(ctx context.Context, raw json.RawMessage) (attachment.Ack, error)
}

// EventHandler accepts S3-compatible notifications over HTTP.
type EventHandler struct {
	dispatcher Dispatcher
	log        zerolog.Logger
}

// NewEventHandler returns a handler that feeds request bodies to dispatcher.
func NewEventHandler(dispatcher Dispatcher, log zerolog.Logger) *EventHandler {
	return &EventHandler{
		dispatcher: dispatcher,
		log:        log.With().Str("component", "event-handler").Logger(),
	}
}

// Receive handles POST /v1/events/s3.
func (h *EventHandler) Receive(c *gin.Context) {
	start := time.Now()

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxEventSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		reason := "unable to read request body"
		if errors.As(err, &tooLarge) {
			reason = "request body too large"
		}
		err = attachment.NewMalformedEvent(reason, nil)
		metrics.RecordEvent(source, attachment.Outcome(attachment.Ack{}, err), time.Since(start).Seconds())
		responses.HandleError(c, err)
		return
	}

	ack, err := h.dispatcher.Dispatch(c.Request.Context(), json.RawMessage(body))
	metrics.RecordEvent(source, attachment.Outcome(ack, err), time.Since(start).Seconds())
	if err != nil {
		h.log.Warn().
			Err(err).
			Str("request_id", middlewares.RequestIDFromContext(c)).
			Bool("retryable", attachment.IsRetryable(err)).
			Msg("event rejected")
		responses.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, ack)
}
