package tablestore

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jan-server/services/media-attach/internal/domain/attachment"
	"jan-server/services/media-attach/internal/infrastructure/database/entities"
	"jan-server/services/media-attach/internal/infrastructure/metrics"
	"jan-server/services/media-attach/internal/infrastructure/observability"
)

const backendPostgres = "postgres"

// errProgressExists aborts the transaction when the progress row is already present.
var errProgressExists = errors.New("progress record exists")

// GormWriter attaches photos to the relational copy of the workout table.
type GormWriter struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewGormWriter returns a writer over the workout_items table.
func NewGormWriter(db *gorm.DB, log zerolog.Logger) *GormWriter {
	return &GormWriter{
		db:  db,
		log: log.With().Str("component", "gorm-writer").Logger(),
	}
}

// Attach upserts the workout image and inserts the progress row in one transaction.
// A duplicate progress row rolls back the workout update as well.
func (w *GormWriter) Attach(ctx context.Context, a attachment.Attachment) error {
	ctx, span := observability.StartSpan(ctx, "gorm.AttachTransaction")
	defer span.End()

	start := time.Now()
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		workout := entities.WorkoutItem{
			PK:        a.PK(),
			SK:        a.WorkoutSK(),
			WorkoutID: a.WorkoutID,
			Image:     a.URL,
			ImageKey:  a.ImageKey,
		}
		upsert := clause.OnConflict{
			Columns:   []clause.Column{{Name: "pk"}, {Name: "sk"}},
			DoUpdates: clause.AssignmentColumns([]string{"image", "image_key", "updated_at"}),
		}
		if err := tx.Clauses(upsert).Create(&workout).Error; err != nil {
			return err
		}

		photoID := a.PhotoID
		progress := entities.WorkoutItem{
			PK:        a.PK(),
			SK:        a.ProgressSK(),
			WorkoutID: a.WorkoutID,
			PhotoID:   &photoID,
			Image:     a.URL,
			ImageKey:  a.ImageKey,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&progress)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errProgressExists
		}
		return nil
	})

	switch {
	case err == nil:
		metrics.RecordStoreTransaction(backendPostgres, "committed", time.Since(start).Seconds())
		return nil
	case errors.Is(err, errProgressExists), errors.Is(err, gorm.ErrDuplicatedKey):
		metrics.RecordStoreTransaction(backendPostgres, "conflict", time.Since(start).Seconds())
		w.log.Info().Str("pk", a.PK()).Str("sk", a.ProgressSK()).Msg("progress row exists, transaction rolled back")
		return attachment.NewAlreadyAttached(a.PhotoID, err)
	default:
		metrics.RecordStoreTransaction(backendPostgres, "error", time.Since(start).Seconds())
		observability.RecordError(ctx, err)
		w.log.Error().Err(err).Str("pk", a.PK()).Str("photo_id", a.PhotoID).Msg("attach transaction")
		return attachment.NewStorageWriteFailed(err)
	}
}
