package tablestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"jan-server/services/media-attach/internal/domain/attachment"
	"jan-server/services/media-attach/internal/infrastructure/metrics"
	"jan-server/services/media-attach/internal/infrastructure/observability"
)

const (
	backendDynamoDB = "dynamodb"

	// position of the conditional put inside TransactItems
	progressPutIndex = 1

	conditionalCheckFailed = "ConditionalCheckFailed"
	progressNotExists      = "attribute_not_exists(PK) AND attribute_not_exists(SK)"
	workoutImageUpdate     = "SET #url = :url, #key = :key"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the writer.
type DynamoDBAPI interface {
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// progressItem is the per-photo record.
type progressItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	WorkoutID string `dynamodbav:"workout_id"`
	PhotoID   string `dynamodbav:"photo_id"`
	Image     string `dynamodbav:"image"`
	ImageKey  string `dynamodbav:"image_key"`
}

// DynamoWriter attaches photos with a single TransactWriteItems call.
type DynamoWriter struct {
	client DynamoDBAPI
	table  string
	log    zerolog.Logger
}

// NewDynamoWriter returns a writer for the single workout table named table.
func NewDynamoWriter(client DynamoDBAPI, table string, log zerolog.Logger) *DynamoWriter {
	return &DynamoWriter{
		client: client,
		table:  table,
		log:    log.With().Str("component", "dynamo-writer").Logger(),
	}
}

// Attach overwrites the workout's image fields and creates the progress record,
// all or nothing. An existing progress record cancels the whole transaction.
func (w *DynamoWriter) Attach(ctx context.Context, a attachment.Attachment) error {
	ctx, span := observability.StartSpan(ctx, "dynamodb.TransactWriteItems")
	defer span.End()
	observability.AddSpanAttributes(ctx,
		attribute.String("db.table", w.table),
		attribute.String("attachment.photo_id", a.PhotoID),
	)

	input, err := w.buildInput(a)
	if err != nil {
		return attachment.NewStorageWriteFailed(err)
	}

	start := time.Now()
	_, err = w.client.TransactWriteItems(ctx, input)
	if err == nil {
		metrics.RecordStoreTransaction(backendDynamoDB, "committed", time.Since(start).Seconds())
		return nil
	}

	classified := classifyTransactError(err, a.PhotoID)
	if errors.Is(classified, attachment.ErrAlreadyAttached) {
		metrics.RecordStoreTransaction(backendDynamoDB, "conflict", time.Since(start).Seconds())
		w.log.Info().Str("pk", a.PK()).Str("sk", a.ProgressSK()).Msg("progress record exists, transaction cancelled")
		return classified
	}
	metrics.RecordStoreTransaction(backendDynamoDB, "error", time.Since(start).Seconds())
	observability.RecordError(ctx, err)
	w.log.Error().Err(err).Str("pk", a.PK()).Str("photo_id", a.PhotoID).Msg("transact write items")
	return classified
}

func (w *DynamoWriter) buildInput(a attachment.Attachment) (*dynamodb.TransactWriteItemsInput, error) {
	item, err := attributevalue.MarshalMap(progressItem{
		PK:        a.PK(),
		SK:        a.ProgressSK(),
		WorkoutID: a.WorkoutID,
		PhotoID:   a.PhotoID,
		Image:     a.URL,
		ImageKey:  a.ImageKey,
	})
	if err != nil {
		return nil, err
	}

	return &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Update: &types.Update{
					TableName: aws.String(w.table),
					Key: map[string]types.AttributeValue{
						"PK": &types.AttributeValueMemberS{Value: a.PK()},
						"SK": &types.AttributeValueMemberS{Value: a.WorkoutSK()},
					},
					UpdateExpression: aws.String(workoutImageUpdate),
					ExpressionAttributeNames: map[string]string{
						"#url": "image",
						"#key": "image_key",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":url": &types.AttributeValueMemberS{Value: a.URL},
						":key": &types.AttributeValueMemberS{Value: a.ImageKey},
					},
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(w.table),
					Item:                item,
					ConditionExpression: aws.String(progressNotExists),
				},
			},
		},
	}, nil
}

// classifyTransactError separates a failed uniqueness condition on the progress
// put from every other failure.
func classifyTransactError(err error, photoID string) error {
	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		reasons := canceled.CancellationReasons
		if len(reasons) > progressPutIndex {
			if aws.ToString(reasons[progressPutIndex].Code) == conditionalCheckFailed {
				return attachment.NewAlreadyAttached(photoID, err)
			}
		} else if strings.Contains(canceled.ErrorMessage(), conditionalCheckFailed) {
			// reasons are only exposed in the message by some endpoints
			return attachment.NewAlreadyAttached(photoID, err)
		}
	}
	return attachment.NewStorageWriteFailed(err)
}
