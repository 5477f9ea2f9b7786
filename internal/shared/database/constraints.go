package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds indexes the hot reservation paths depend on.
// The conditional UPDATEs filter by status and expiry on every hold,
// confirm and sweep; without these the sweep degrades to a table scan.
func MigrateConstraints(db *gorm.DB) error {
	// Sweep scans only lapsed holds
	err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_seats_held_expiry
		ON seats (hold_expires_at)
		WHERE status = 'HELD';
	`).Error
	if err != nil {
		return err
	}

	// Availability view reads one event's seats grouped by section
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_seats_event_section
		ON seats (event_id, section);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
