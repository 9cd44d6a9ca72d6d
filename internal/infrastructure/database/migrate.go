package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"jan-server/services/media-attach/internal/infrastructure/database/entities"
)

// AutoMigrate applies database schema changes.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(&entities.WorkoutItem{}); err != nil {
		return err
	}
	log.Info().Msg("applied workout item migrations")
	return nil
}
