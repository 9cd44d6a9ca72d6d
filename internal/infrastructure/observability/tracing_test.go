package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jan-server/services/media-attach/internal/config"
)

func TestSetup_WithoutExporter(t *testing.T) {
	cfg := &config.Config{ServiceName: "media-attach", Environment: "test"}

	shutdown, err := Setup(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)

	ctx, span := StartSpan(context.Background(), "test.span")
	assert.NotEmpty(t, GetTraceID(ctx))
	RecordError(ctx, errors.New("boom"))
	span.End()

	assert.NoError(t, shutdown(context.Background()))
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
}
