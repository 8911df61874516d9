package database

import "implantstock/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Order matters: implants reference users.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Implant{},
	}
}
