package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jan-server/services/media-attach/internal/domain/attachment"
	"jan-server/services/media-attach/internal/infrastructure/observability"
	"jan-server/services/media-attach/internal/interfaces/httpserver/middlewares"
)

// ErrorResponse is the JSON body of every failed webhook call.
type ErrorResponse struct {
	Code      string `json:"code"`
	Error     string `json:"error"`
	Retryable bool   `json:"retryable"`
	RequestID string `json:"request_id,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
}

// StatusFor maps a pipeline error onto an HTTP status. Retryable failures get
// 503 so the notifier redelivers.
func StatusFor(err error) int {
	switch attachment.CodeOf(err) {
	case attachment.CodeMalformedEvent:
		return http.StatusBadRequest
	case attachment.CodeInvalidTagging:
		return http.StatusUnprocessableEntity
	case attachment.CodeAlreadyAttached:
		return http.StatusOK
	}
	if attachment.IsRetryable(err) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// HandleError writes err as an ErrorResponse and aborts the chain.
func HandleError(c *gin.Context, err error) {
	resp := ErrorResponse{
		Code:      "INTERNAL",
		Error:     err.Error(),
		Retryable: attachment.IsRetryable(err),
		RequestID: middlewares.RequestIDFromContext(c),
		TraceID:   observability.GetTraceID(c.Request.Context()),
	}
	var ae *attachment.Error
	if errors.As(err, &ae) {
		resp.Code = string(ae.Code)
		resp.Error = ae.Message
	}
	c.AbortWithStatusJSON(StatusFor(err), resp)
}
