package database

import (
	"stagepass/internal/events"
	"stagepass/internal/seats"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&events.Event{},
		&seats.Seat{},
	)
}
