package database

import (
	"notebook-be/internal/model"

	"gorm.io/gorm"
)

// Models lists every table in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.Notebook{},
		&model.NotebookStep{},
	}
}

// Migrate brings the schema to the current model definitions. It is idempotent.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
