package entities

import "time"

// WorkoutItem is one row of the single-table workout layout: the aggregate
// workout record (SK WORKOUT#...) or a per-photo progress record (SK PROGRESS#...).
type WorkoutItem struct {
	PK        string    `gorm:"column:pk;type:varchar(160);primaryKey"`
	SK        string    `gorm:"column:sk;type:varchar(512);primaryKey"`
	WorkoutID string    `gorm:"type:varchar(128);not null"`
	PhotoID   *string   `gorm:"type:varchar(160)"`
	Image     string    `gorm:"type:text"`
	ImageKey  string    `gorm:"type:varchar(1024)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (WorkoutItem) TableName() string {
	return "workout_items"
}
