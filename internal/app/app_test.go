package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"jan-server/services/media-attach/internal/app"
	"jan-server/services/media-attach/internal/config"
	"jan-server/services/media-attach/internal/infrastructure/awsclients"
	"jan-server/services/media-attach/internal/infrastructure/tablestore"
)

func testConfig() *config.Config {
	return &config.Config{
		ServiceName:       "media-attach",
		AWSRegion:         "us-west-2",
		WorkoutsTable:     "workouts",
		MediaDistribution: "https://cdn.example.com",
		StoreBackend:      config.StoreDynamoDB,
		DBMaxIdleConns:    2,
		DBMaxOpenConns:    5,
		DBConnLifetime:    30 * time.Minute,
	}
}

func TestNewDatabaseConfig(t *testing.T) {
	cfg := testConfig()
	cfg.DBPostgresqlWriteDSN = "postgres://localhost/workouts"

	dbCfg := app.NewDatabaseConfig(cfg)
	assert.Equal(t, "postgres://localhost/workouts", dbCfg.DSN)
	assert.Equal(t, 2, dbCfg.MaxIdleConns)
	assert.Equal(t, 5, dbCfg.MaxOpenConns)
	assert.Equal(t, 30*time.Minute, dbCfg.ConnMaxLifetime)
	assert.Equal(t, gormlogger.Warn, dbCfg.LogLevel)
}

func TestNewStore_DefaultsToDynamo(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	cfg := testConfig()

	store, err := app.NewStore(context.Background(), cfg, awsclients.New(cfg), zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &tablestore.DynamoWriter{}, store.Writer)
	assert.Nil(t, store.Ready)
	store.Close()
}

func TestNewService(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	cfg := testConfig()
	clients := awsclients.New(cfg)

	store, err := app.NewStore(context.Background(), cfg, clients, zerolog.Nop())
	require.NoError(t, err)
	svc, err := app.NewService(cfg, clients, store, zerolog.Nop())
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
