package repository

import (
	"gorm.io/gorm"

	"github.com/imf-ops/gadget-api/internal/models"
)

// AutoMigrate creates the tables for SQLite development databases and tests.
// Postgres deployments are migrated with the goose migrations instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Gadget{})
}
