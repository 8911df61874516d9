package repository

import (
	"fmt"
	"path/filepath"
	"testing"

	"implantstock/internal/database"
	"implantstock/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway SQLite database with the application schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := database.SQLiteDSN(filepath.Join(t.TempDir(), "inventory.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "hash"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createImplant(t *testing.T, db *gorm.DB, ownerID uint, size, brand string, stock, minStock int) *models.Implant {
	t.Helper()
	implant := &models.Implant{UserID: ownerID, Size: size, Brand: brand, Stock: stock, MinStock: minStock}
	require.NoError(t, db.Create(implant).Error, fmt.Sprintf("create %s %s", brand, size))
	return implant
}
