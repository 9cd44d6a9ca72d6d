package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"jan-server/services/media-attach/internal/config"
	"jan-server/services/media-attach/internal/domain/attachment"
	"jan-server/services/media-attach/internal/infrastructure/awsclients"
	"jan-server/services/media-attach/internal/infrastructure/database"
	"jan-server/services/media-attach/internal/infrastructure/storage"
	"jan-server/services/media-attach/internal/infrastructure/tablestore"
)

// Store is the configured attachment writer plus its lifecycle hooks.
type Store struct {
	Writer attachment.Writer
	// Ready is nil when the backend has nothing to probe.
	Ready func(ctx context.Context) error
	Close func()
}

// NewDatabaseConfig maps service config onto the relational pool settings.
func NewDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DBPostgresqlWriteDSN,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

// NewStore selects the DynamoDB writer or, with MEDIA_ATTACH_STORE=postgres, the gorm writer.
func NewStore(ctx context.Context, cfg *config.Config, clients *awsclients.Clients, log zerolog.Logger) (*Store, error) {
	if !cfg.IsPostgresStore() {
		client, err := clients.DynamoDB()
		if err != nil {
			return nil, fmt.Errorf("dynamodb client: %w", err)
		}
		return &Store{
			Writer: tablestore.NewDynamoWriter(client, cfg.WorkoutsTable, log),
			Close:  func() {},
		}, nil
	}

	db, err := database.Connect(NewDatabaseConfig(cfg))
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	return &Store{
		Writer: tablestore.NewGormWriter(db, log),
		Ready:  sqlDB.PingContext,
		Close: func() {
			if err := sqlDB.Close(); err != nil {
				log.Error().Err(err).Msg("close database")
			}
		},
	}, nil
}

// NewService builds the attachment service over the S3 tag reader and the configured store.
func NewService(cfg *config.Config, clients *awsclients.Clients, store *Store, log zerolog.Logger) (*attachment.Service, error) {
	client, err := clients.S3()
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}
	return attachment.NewService(cfg, storage.NewS3TagReader(client, log), store.Writer, log), nil
}
