package attachment

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies attachment failures.
type Code string

const (
	// Fatal: retrying the same event cannot succeed
	CodeMalformedEvent Code = "MALFORMED_EVENT"
	CodeInvalidTagging Code = "INVALID_TAGGING"

	// Benign replay of an event that was already applied
	CodeAlreadyAttached Code = "ALREADY_ATTACHED"

	// Retryable backend failures
	CodeStorageWriteFailed Code = "STORAGE_WRITE_FAILED"
	CodeStorageReadFailed  Code = "STORAGE_READ_FAILED"
)

// Error is the typed failure returned by every stage of the attachment pipeline.
type Error struct {
	Code      Code           `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
	Cause     error          `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is comparisons.
var (
	ErrMalformedEvent     = &Error{Code: CodeMalformedEvent, Message: "malformed event"}
	ErrInvalidTagging     = &Error{Code: CodeInvalidTagging, Message: "invalid tagging"}
	ErrAlreadyAttached    = &Error{Code: CodeAlreadyAttached, Message: "photo already attached"}
	ErrStorageWriteFailed = &Error{Code: CodeStorageWriteFailed, Message: "storage write failed", Retryable: true}
	ErrStorageReadFailed  = &Error{Code: CodeStorageReadFailed, Message: "storage read failed", Retryable: true}
)

// NewMalformedEvent rejects an inbound payload that does not match the notification schema.
func NewMalformedEvent(reason string, details map[string]any) *Error {
	return &Error{
		Code:    CodeMalformedEvent,
		Message: reason,
		Details: details,
	}
}

// NewInvalidTagging rejects an object missing one of the ownership tags.
// The observed tags are kept for diagnostics.
func NewInvalidTagging(tags map[string]string) *Error {
	observed := make(map[string]string, len(tags))
	for k, v := range tags {
		observed[k] = v
	}
	return &Error{
		Code:    CodeInvalidTagging,
		Message: fmt.Sprintf("object must carry %q and %q tags", TagUserID, TagWorkoutID),
		Details: map[string]any{"tags": observed},
	}
}

// NewAlreadyAttached reports that the photo record for photoID exists.
func NewAlreadyAttached(photoID string, cause error) *Error {
	return &Error{
		Code:    CodeAlreadyAttached,
		Message: "photo already attached",
		Details: map[string]any{"photo_id": photoID},
		Cause:   cause,
	}
}

// NewStorageWriteFailed wraps a table store failure. Nothing was applied.
func NewStorageWriteFailed(cause error) *Error {
	return &Error{
		Code:      CodeStorageWriteFailed,
		Message:   "transactional write failed",
		Retryable: true,
		Cause:     cause,
	}
}

// NewStorageReadFailed wraps an object storage lookup failure.
func NewStorageReadFailed(message string, cause error) *Error {
	return &Error{
		Code:      CodeStorageReadFailed,
		Message:   message,
		Retryable: true,
		Cause:     cause,
	}
}

// CodeOf returns the code carried by err, or "" for foreign errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsRetryable reports whether redelivering the event may succeed.
// Unclassified errors are treated as retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return true
}

// Outcome labels a handled event for metrics: "attached", "replay", or the
// lower-cased error code.
func Outcome(ack Ack, err error) string {
	if err == nil {
		if ack.Replay {
			return "replay"
		}
		return "attached"
	}
	if code := CodeOf(err); code != "" {
		return strings.ToLower(string(code))
	}
	return "error"
}
