package database

import (
	"context"
	"path/filepath"
	"testing"

	"implantstock/internal/config"
	"implantstock/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConfigurePool(t *testing.T) {
	t.Run("postgres settings are applied", func(t *testing.T) {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		require.NoError(t, err)

		cfg := &config.Config{
			DBDriver:                 "postgres",
			DBMaxOpenConns:           10,
			DBMaxIdleConns:           5,
			DBConnMaxLifetimeMinutes: 15,
		}
		require.NoError(t, configurePool(db, cfg))

		sqlDB, err := db.DB()
		require.NoError(t, err)
		assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)
	})

	t.Run("sqlite uses a single connection", func(t *testing.T) {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		require.NoError(t, err)

		require.NoError(t, configurePool(db, &config.Config{DBDriver: "sqlite", DBMaxOpenConns: 50}))

		sqlDB, err := db.DB()
		require.NoError(t, err)
		assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	})
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file:inventory.db?_foreign_keys=1&_busy_timeout=5000", SQLiteDSN("inventory.db"))
	assert.Contains(t, SQLiteDSN(":memory:"), "_foreign_keys=1")
}

func TestPostgresDSN_DefaultsSSLMode(t *testing.T) {
	dsn := PostgresDSN(&config.Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "stock"})
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=stock sslmode=disable", dsn)
}

func TestConnectWithOptions_SQLiteAppliesSchema(t *testing.T) {
	cfg := &config.Config{
		Env:      "test",
		DBDriver: "sqlite",
		DBPath:   filepath.Join(t.TempDir(), "inventory.db"),
	}

	db, err := Connect(cfg)
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasTable(&models.Implant{}))
	assert.True(t, db.Migrator().HasIndex(&models.Implant{}, "idx_implants_owner_size_brand"))
}

func TestConnectWithOptions_SQLiteCascadesUserDelete(t *testing.T) {
	cfg := &config.Config{
		Env:      "test",
		DBDriver: "sqlite",
		DBPath:   filepath.Join(t.TempDir(), "inventory.db"),
	}
	db, err := Connect(cfg)
	require.NoError(t, err)

	user := models.User{Username: "dr-kim", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.Implant{UserID: user.ID, Size: "4.0x10", Brand: "Astra", Stock: 3, MinStock: 1}).Error)

	require.NoError(t, db.Delete(&models.User{}, user.ID).Error)

	var remaining int64
	require.NoError(t, db.Model(&models.Implant{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestConnectWithOptions_UnknownDriver(t *testing.T) {
	_, err := ConnectWithOptions(&config.Config{DBDriver: "mysql"}, ConnectOptions{})
	assert.Error(t, err)
}

func TestPlanSchema(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		wantSQL  bool
		wantAuto bool
		wantErr  bool
	}{
		{name: "sqlite always automigrates", cfg: config.Config{DBDriver: "sqlite", DBSchemaMode: "sql", Env: "production"}, wantAuto: true},
		{name: "sqlite rejects unknown mode", cfg: config.Config{DBDriver: "sqlite", DBSchemaMode: "magic"}, wantErr: true},
		{name: "postgres sql", cfg: config.Config{DBDriver: "postgres", DBSchemaMode: "sql"}, wantSQL: true},
		{name: "postgres hybrid dev", cfg: config.Config{DBDriver: "postgres", DBSchemaMode: "hybrid", Env: "development"}, wantSQL: true, wantAuto: true},
		{name: "postgres hybrid prod", cfg: config.Config{DBDriver: "postgres", DBSchemaMode: "hybrid", Env: "production"}, wantSQL: true},
		{name: "postgres empty mode is hybrid", cfg: config.Config{DBDriver: "postgres", Env: "test"}, wantSQL: true, wantAuto: true},
		{name: "postgres auto dev", cfg: config.Config{DBDriver: "postgres", DBSchemaMode: "auto", Env: "development"}, wantAuto: true},
		{name: "postgres auto prod refused", cfg: config.Config{DBDriver: "postgres", DBSchemaMode: "auto", Env: "production"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanSchema(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, plan.SQL)
			assert.Equal(t, tt.wantAuto, plan.AutoMigrate)
		})
	}
}

func TestGetSchemaStatus_SQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	status, err := GetSchemaStatus(context.Background(), db, &config.Config{DBDriver: "sqlite", Env: "test"})
	require.NoError(t, err)
	assert.False(t, status.SQL)
	assert.True(t, status.AutoMigrate)
	assert.Equal(t, SchemaModeHybrid, status.Mode)
	assert.Empty(t, status.Pending)
}
