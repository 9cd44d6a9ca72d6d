package middlewares

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

const (
	RequestIDHeader     = "X-Request-Id"
	requestIDContextKey = "request_id"
)

// RequestID reuses an inbound X-Request-Id or mints a ULID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" {
			id = ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
		}
		c.Set(requestIDContextKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// RequestIDFromContext returns the request ID set by RequestID.
func RequestIDFromContext(c *gin.Context) string {
	if v, ok := c.Get(requestIDContextKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
