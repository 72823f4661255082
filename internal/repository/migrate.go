package repository

import (
	"go-kasir-api/internal/model"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the API uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(model.AllModels()...)
}
