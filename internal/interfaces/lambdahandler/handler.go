package lambdahandler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"jan-server/services/media-attach/internal/domain/attachment"
	"jan-server/services/media-attach/internal/infrastructure/metrics"
	"jan-server/services/media-attach/internal/infrastructure/observability"
)

const source = "lambda"

// Dispatcher runs the attachment pipeline for one raw notification.
type Dispatcher interface {
	Dispatch(ctx context.Context, raw json.RawMessage) (attachment.Ack, error)
}

// Handler adapts the dispatcher to the Lambda runtime.
type Handler struct {
	dispatcher Dispatcher
	log        zerolog.Logger
}

// New returns a Lambda handler backed by dispatcher.
func New(dispatcher Dispatcher, log zerolog.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		log:        log.With().Str("component", "lambda-handler").Logger(),
	}
}

// Invoke handles one S3 notification. Errors are returned to the runtime so the
// event source applies its own redelivery policy.
func (h *Handler) Invoke(ctx context.Context, raw json.RawMessage) (attachment.Ack, error) {
	ctx, span := observability.StartSpan(ctx, "lambda.Invoke")
	defer span.End()

	log := h.log
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		log = log.With().Str("aws_request_id", lc.AwsRequestID).Logger()
		observability.AddSpanAttributes(ctx, attribute.String("faas.invocation_id", lc.AwsRequestID))
	}

	start := time.Now()
	ack, err := h.dispatcher.Dispatch(ctx, raw)
	metrics.RecordEvent(source, attachment.Outcome(ack, err), time.Since(start).Seconds())
	if err != nil {
		observability.RecordError(ctx, err)
		log.Error().Err(err).Bool("retryable", attachment.IsRetryable(err)).Msg("invocation failed")
		return attachment.Ack{}, err
	}
	return ack, nil
}
