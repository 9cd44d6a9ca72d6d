package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jan-server/services/media-attach/internal/domain/attachment"
)

type mockS3 struct {
	GetObjectTaggingFn func(ctx context.Context, params *s3.GetObjectTaggingInput, optFns ...func(*s3.Options)) (*s3.GetObjectTaggingOutput, error)
}

func (m *mockS3) GetObjectTagging(ctx context.Context, p *s3.GetObjectTaggingInput, optFns ...func(*s3.Options)) (*s3.GetObjectTaggingOutput, error) {
	return m.GetObjectTaggingFn(ctx, p, optFns...)
}

func TestGetTags_FoldsTagSet(t *testing.T) {
	var input *s3.GetObjectTaggingInput
	client := &mockS3{GetObjectTaggingFn: func(_ context.Context, p *s3.GetObjectTaggingInput, _ ...func(*s3.Options)) (*s3.GetObjectTaggingOutput, error) {
		input = p
		return &s3.GetObjectTaggingOutput{TagSet: []types.Tag{
			{Key: aws.String("userId"), Value: aws.String("u1")},
			{Key: aws.String("workoutId"), Value: aws.String("w1")},
			{Key: nil, Value: aws.String("ignored")},
			{Key: aws.String("empty"), Value: nil},
		}}, nil
	}}

	tags, err := NewS3TagReader(client, zerolog.Nop()).GetTags(context.Background(), "media-bucket", "photos/abc.jpg")
	require.NoError(t, err)

	assert.Equal(t, "media-bucket", aws.ToString(input.Bucket))
	assert.Equal(t, "photos/abc.jpg", aws.ToString(input.Key))
	assert.Equal(t, map[string]string{"userId": "u1", "workoutId": "w1", "empty": ""}, tags)
}

func TestGetTags_Errors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"transient", errors.New("connection reset"), true},
		{"missing object", &smithy.GenericAPIError{Code: "NoSuchKey", Message: "The specified key does not exist."}, false},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockS3{GetObjectTaggingFn: func(context.Context, *s3.GetObjectTaggingInput, ...func(*s3.Options)) (*s3.GetObjectTaggingOutput, error) {
				return nil, tt.err
			}}

			_, err := NewS3TagReader(client, zerolog.Nop()).GetTags(context.Background(), "b", "k")
			require.Error(t, err)
			assert.True(t, errors.Is(err, attachment.ErrStorageReadFailed))
			assert.Equal(t, tt.retryable, attachment.IsRetryable(err))
		})
	}
}
