package storage

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"jan-server/services/media-attach/internal/domain/attachment"
	"jan-server/services/media-attach/internal/infrastructure/metrics"
	"jan-server/services/media-attach/internal/infrastructure/observability"
)

// TaggingAPI is the subset of the S3 client used to read object tags.
type TaggingAPI interface {
	GetObjectTagging(ctx context.Context, params *s3.GetObjectTaggingInput, optFns ...func(*s3.Options)) (*s3.GetObjectTaggingOutput, error)
}

// S3TagReader resolves object tags from S3-compatible storage.
type S3TagReader struct {
	client TaggingAPI
	log    zerolog.Logger
}

// NewS3TagReader returns a tag reader over client.
func NewS3TagReader(client TaggingAPI, log zerolog.Logger) *S3TagReader {
	return &S3TagReader{
		client: client,
		log:    log.With().Str("component", "s3-tags").Logger(),
	}
}

// GetTags returns the object's tag set folded into a name to value map.
func (r *S3TagReader) GetTags(ctx context.Context, bucket, key string) (map[string]string, error) {
	ctx, span := observability.StartSpan(ctx, "s3.GetObjectTagging")
	defer span.End()
	observability.AddSpanAttributes(ctx, attribute.String("s3.bucket", bucket), attribute.String("s3.key", key))

	start := time.Now()
	out, err := r.client.GetObjectTagging(ctx, &s3.GetObjectTaggingInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		metrics.RecordS3Operation("get_object_tagging", "error", time.Since(start).Seconds())
		observability.RecordError(ctx, err)

		readErr := attachment.NewStorageReadFailed("get object tagging", err)
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			// the object is gone; redelivery cannot help
			readErr.Message = "object no longer exists"
			readErr.Retryable = false
		}
		return nil, readErr
	}
	metrics.RecordS3Operation("get_object_tagging", "success", time.Since(start).Seconds())

	tags := make(map[string]string, len(out.TagSet))
	for _, tag := range out.TagSet {
		if tag.Key == nil {
			continue
		}
		tags[*tag.Key] = aws.ToString(tag.Value)
	}
	r.log.Debug().Str("bucket", bucket).Str("key", key).Interface("tags", tags).Msg("resolved object tags")
	return tags, nil
}
