package tablestore

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jan-server/services/media-attach/internal/domain/attachment"
)

// mockDynamo implements DynamoDBAPI
type mockDynamo struct {
	TransactWriteItemsFn func(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

func (m *mockDynamo) TransactWriteItems(ctx context.Context, p *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	return m.TransactWriteItemsFn(ctx, p, optFns...)
}

func sampleAttachment() attachment.Attachment {
	return attachment.Attachment{
		UserID:    "u1",
		WorkoutID: "w1",
		PhotoID:   "2025-01-01T00:00:00.000Z~1a2b3c4d",
		URL:       "https://media.example.com/photos/abc.jpg",
		ImageKey:  "photos/abc.jpg",
	}
}

func stringAttr(t *testing.T, av types.AttributeValue) string {
	t.Helper()
	s, ok := av.(*types.AttributeValueMemberS)
	require.True(t, ok, "expected string attribute, got %T", av)
	return s.Value
}

func TestDynamoWriter_BuildsTransaction(t *testing.T) {
	var captured *dynamodb.TransactWriteItemsInput
	client := &mockDynamo{TransactWriteItemsFn: func(_ context.Context, p *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
		captured = p
		return &dynamodb.TransactWriteItemsOutput{}, nil
	}}

	err := NewDynamoWriter(client, "test-table", zerolog.Nop()).Attach(context.Background(), sampleAttachment())
	require.NoError(t, err)
	require.NotNil(t, captured)
	require.Len(t, captured.TransactItems, 2)

	update := captured.TransactItems[0].Update
	require.NotNil(t, update)
	assert.Equal(t, "test-table", aws.ToString(update.TableName))
	assert.Equal(t, "USER#u1", stringAttr(t, update.Key["PK"]))
	assert.Equal(t, "WORKOUT#w1", stringAttr(t, update.Key["SK"]))
	assert.Equal(t, "SET #url = :url, #key = :key", aws.ToString(update.UpdateExpression))
	assert.Equal(t, map[string]string{"#url": "image", "#key": "image_key"}, update.ExpressionAttributeNames)
	assert.Equal(t, "https://media.example.com/photos/abc.jpg", stringAttr(t, update.ExpressionAttributeValues[":url"]))
	assert.Equal(t, "photos/abc.jpg", stringAttr(t, update.ExpressionAttributeValues[":key"]))
	assert.Nil(t, update.ConditionExpression)

	put := captured.TransactItems[1].Put
	require.NotNil(t, put)
	assert.Equal(t, "test-table", aws.ToString(put.TableName))
	assert.Equal(t, "attribute_not_exists(PK) AND attribute_not_exists(SK)", aws.ToString(put.ConditionExpression))

	var item progressItem
	require.NoError(t, attributevalue.UnmarshalMap(put.Item, &item))
	assert.Equal(t, progressItem{
		PK:        "USER#u1",
		SK:        "PROGRESS#w1#2025-01-01T00:00:00.000Z~1a2b3c4d",
		WorkoutID: "w1",
		PhotoID:   "2025-01-01T00:00:00.000Z~1a2b3c4d",
		Image:     "https://media.example.com/photos/abc.jpg",
		ImageKey:  "photos/abc.jpg",
	}, item)
}

func TestDynamoWriter_ClassifiesFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "progress record exists",
			err: &types.TransactionCanceledException{
				Message: aws.String("Transaction cancelled, please refer cancellation reasons for specific reasons [None, ConditionalCheckFailed]"),
				CancellationReasons: []types.CancellationReason{
					{Code: aws.String("None")},
					{Code: aws.String("ConditionalCheckFailed"), Message: aws.String("The conditional request failed")},
				},
			},
			want: attachment.ErrAlreadyAttached,
		},
		{
			name: "reasons only in message",
			err: &types.TransactionCanceledException{
				Message: aws.String("Transaction cancelled, please refer cancellation reasons for specific reasons [None, ConditionalCheckFailed]"),
			},
			want: attachment.ErrAlreadyAttached,
		},
		{
			name: "transaction conflict",
			err: &types.TransactionCanceledException{
				CancellationReasons: []types.CancellationReason{
					{Code: aws.String("TransactionConflict")},
					{Code: aws.String("None")},
				},
			},
			want: attachment.ErrStorageWriteFailed,
		},
		{
			name: "throttled",
			err:  &types.ProvisionedThroughputExceededException{Message: aws.String("slow down")},
			want: attachment.ErrStorageWriteFailed,
		},
		{
			name: "network",
			err:  errors.New("dial tcp: connection refused"),
			want: attachment.ErrStorageWriteFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockDynamo{TransactWriteItemsFn: func(context.Context, *dynamodb.TransactWriteItemsInput, ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
				return nil, tt.err
			}}

			var buf bytes.Buffer
			err := NewDynamoWriter(client, "test-table", zerolog.New(&buf)).Attach(context.Background(), sampleAttachment())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.True(t, errors.Is(err, tt.err), "cause must be preserved")

			wantLevel := `"level":"error"`
			if errors.Is(tt.want, attachment.ErrAlreadyAttached) {
				wantLevel = `"level":"info"`
			}
			assert.Contains(t, buf.String(), wantLevel)
			assert.Contains(t, buf.String(), `"component":"dynamo-writer"`)
		})
	}
}
