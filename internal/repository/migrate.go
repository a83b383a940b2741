package repository

import (
	"fptrack/internal/domain"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for every table this service
// owns. The user table is defined by the repository row model so its unique
// indexes always travel with the code that relies on them.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&domain.RefreshToken{},
		&domain.AttendanceLog{},
	)
}
