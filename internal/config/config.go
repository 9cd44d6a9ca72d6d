package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Store backends accepted by MEDIA_ATTACH_STORE.
const (
	StoreDynamoDB = "dynamodb"
	StorePostgres = "postgres"
)

// Config holds the environment driven configuration for the media attach service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"media-attach"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"MEDIA_ATTACH_PORT" envDefault:"8290"`
	LogLevel        string        `env:"MEDIA_ATTACH_LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"MEDIA_ATTACH_LOG_FORMAT" envDefault:"json"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Required by every entry point
	WorkoutsTable     string `env:"WORKOUTS_TABLE,notEmpty"`
	MediaDistribution string `env:"MEDIA_DISTRIBUTION,notEmpty"`
	CacheBust         bool   `env:"MEDIA_CACHE_BUST" envDefault:"true"`

	// AWS
	AWSRegion        string `env:"AWS_REGION" envDefault:"us-west-2"`
	S3Endpoint       string `env:"MEDIA_S3_ENDPOINT"`
	S3UsePathStyle   bool   `env:"MEDIA_S3_USE_PATH_STYLE" envDefault:"false"`
	S3AccessKeyID    string `env:"MEDIA_S3_ACCESS_KEY_ID"`
	S3SecretKey      string `env:"MEDIA_S3_SECRET_ACCESS_KEY"`
	DynamoDBEndpoint string `env:"DYNAMODB_ENDPOINT"` // DynamoDB Local, e.g. http://localhost:8000

	// Store Backend Selection
	StoreBackend string `env:"MEDIA_ATTACH_STORE" envDefault:"dynamodb"` // Options: "dynamodb" or "postgres"

	// Database (postgres backend only)
	DBPostgresqlWriteDSN string        `env:"DB_POSTGRESQL_WRITE_DSN"`
	DBMaxIdleConns       int           `env:"DB_MAX_IDLE_CONNS" envDefault:"2"`
	DBMaxOpenConns       int           `env:"DB_MAX_OPEN_CONNS" envDefault:"5"`
	DBConnLifetime       time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Webhook
	WebhookAuthToken string `env:"WEBHOOK_AUTH_TOKEN"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.WorkoutsTable = strings.TrimSpace(cfg.WorkoutsTable)
	cfg.MediaDistribution = strings.TrimRight(strings.TrimSpace(cfg.MediaDistribution), "/")
	cfg.S3Endpoint = strings.TrimSpace(cfg.S3Endpoint)
	cfg.S3AccessKeyID = strings.TrimSpace(cfg.S3AccessKeyID)
	cfg.S3SecretKey = strings.TrimSpace(cfg.S3SecretKey)
	cfg.DynamoDBEndpoint = strings.TrimSpace(cfg.DynamoDBEndpoint)
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	cfg.WebhookAuthToken = strings.TrimSpace(cfg.WebhookAuthToken)

	if cfg.WorkoutsTable == "" {
		return nil, fmt.Errorf("WORKOUTS_TABLE must not be blank")
	}
	if cfg.MediaDistribution == "" {
		return nil, fmt.Errorf("MEDIA_DISTRIBUTION must not be blank")
	}

	switch cfg.StoreBackend {
	case "", StoreDynamoDB:
		cfg.StoreBackend = StoreDynamoDB
	case StorePostgres:
		if strings.TrimSpace(cfg.DBPostgresqlWriteDSN) == "" {
			return nil, fmt.Errorf("DB_POSTGRESQL_WRITE_DSN is required when MEDIA_ATTACH_STORE is postgres")
		}
	default:
		return nil, fmt.Errorf("unsupported MEDIA_ATTACH_STORE %q", cfg.StoreBackend)
	}

	if (cfg.S3AccessKeyID == "") != (cfg.S3SecretKey == "") {
		return nil, fmt.Errorf("MEDIA_S3_ACCESS_KEY_ID and MEDIA_S3_SECRET_ACCESS_KEY must be set together")
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsPostgresStore returns true if the relational store backend is configured.
func (c *Config) IsPostgresStore() bool {
	return c.StoreBackend == StorePostgres
}

// HasStaticS3Credentials reports whether explicit S3 keys override the default credential chain.
func (c *Config) HasStaticS3Credentials() bool {
	return c.S3AccessKeyID != "" && c.S3SecretKey != ""
}
