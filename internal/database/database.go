package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/naebak/admin-service/internal/models"
)

// Open bootstraps a SQLite database using the provided filesystem path.
func Open(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	return db, nil
}

// Migrate applies automatic migrations for every model this service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Governorate{},
		&models.Party{},
		&models.ComplaintType{},
		&models.Permission{},
		&models.Role{},
		&models.Account{},
		&models.Activity{},
		&models.Setting{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	return nil
}
