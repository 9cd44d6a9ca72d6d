// Package awsclients holds the process-wide AWS service handles. Each handle is
// built on first use and reused until the process exits.
package awsclients

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"jan-server/services/media-attach/internal/config"
)

// Clients lazily constructs the S3 and DynamoDB clients.
type Clients struct {
	base   func() (aws.Config, error)
	s3     func() (*s3.Client, error)
	dynamo func() (*dynamodb.Client, error)
}

// New prepares the handles without contacting AWS.
func New(cfg *config.Config) *Clients {
	c := &Clients{}
	c.base = sync.OnceValues(func() (aws.Config, error) {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return aws.Config{}, fmt.Errorf("load aws config: %w", err)
		}
		return awsCfg, nil
	})
	c.s3 = sync.OnceValues(func() (*s3.Client, error) {
		awsCfg, err := c.base()
		if err != nil {
			return nil, err
		}
		return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.S3Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			}
			o.UsePathStyle = cfg.S3UsePathStyle
			if cfg.HasStaticS3Credentials() {
				o.Credentials = credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretKey, "")
			}
		}), nil
	})
	c.dynamo = sync.OnceValues(func() (*dynamodb.Client, error) {
		awsCfg, err := c.base()
		if err != nil {
			return nil, err
		}
		return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.DynamoDBEndpoint != "" {
				o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
			}
		}), nil
	})
	return c
}

// S3 returns the shared S3 client.
func (c *Clients) S3() (*s3.Client, error) {
	return c.s3()
}

// DynamoDB returns the shared DynamoDB client.
func (c *Clients) DynamoDB() (*dynamodb.Client, error) {
	return c.dynamo()
}
