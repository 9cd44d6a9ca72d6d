package attachment

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"
)

const (
	createdPrefix    = "ObjectCreated:"
	compatiblePrefix = "s3:" // MinIO and other S3-compatible webhooks prefix event names
)

// notification mirrors the subset of the S3 event notification schema that is consumed.
// Pointers distinguish absent fields from empty ones.
type notification struct {
	Records []notificationRecord `json:"Records"`
}

type notificationRecord struct {
	EventName *string   `json:"eventName"`
	EventTime *string   `json:"eventTime"`
	S3        *s3Entity `json:"s3"`
}

type s3Entity struct {
	Bucket *struct {
		Name *string `json:"name"`
	} `json:"bucket"`
	Object *struct {
		Key *string `json:"key"`
	} `json:"object"`
}

// ParseEvent validates an inbound notification and extracts the created object.
// Anything other than exactly one ObjectCreated record naming a bucket and key is
// rejected with a MALFORMED_EVENT error.
func ParseEvent(raw []byte) (Event, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Event{}, NewMalformedEvent("payload is not a JSON object", nil)
	}

	var n notification
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return Event{}, NewMalformedEvent("payload does not match notification schema", map[string]any{"error": err.Error()})
	}
	if len(n.Records) != 1 {
		return Event{}, NewMalformedEvent("expected exactly one record", map[string]any{"record_count": len(n.Records)})
	}

	rec := n.Records[0]
	if rec.EventName == nil || *rec.EventName == "" {
		return Event{}, NewMalformedEvent("record has no eventName", nil)
	}
	name := strings.TrimPrefix(*rec.EventName, compatiblePrefix)
	if !strings.HasPrefix(name, createdPrefix) {
		return Event{}, NewMalformedEvent("not an object creation event", map[string]any{"event_name": *rec.EventName})
	}
	if rec.S3 == nil || rec.S3.Bucket == nil || rec.S3.Bucket.Name == nil || *rec.S3.Bucket.Name == "" {
		return Event{}, NewMalformedEvent("record has no bucket name", nil)
	}
	if rec.S3.Object == nil || rec.S3.Object.Key == nil || *rec.S3.Object.Key == "" {
		return Event{}, NewMalformedEvent("record has no object key", nil)
	}

	// notification keys are form-encoded: "photos/my+photo.jpg" is "photos/my photo.jpg"
	key, err := url.QueryUnescape(*rec.S3.Object.Key)
	if err != nil {
		return Event{}, NewMalformedEvent("object key is not valid URL encoding", map[string]any{"key": *rec.S3.Object.Key})
	}

	event := Event{
		Bucket:    *rec.S3.Bucket.Name,
		Key:       key,
		EventName: name,
	}
	if rec.EventTime != nil {
		event.EventTime = strings.TrimSpace(*rec.EventTime)
	}
	return event, nil
}
