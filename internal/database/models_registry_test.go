package database

import (
	"context"
	"testing"
	"testing/fstest"

	modelspkg "implantstock/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestPersistentModels_UsersBeforeImplants(t *testing.T) {
	all := PersistentModels()
	require.Len(t, all, 2)
	_, isUser := all[0].(*modelspkg.User)
	_, isImplant := all[1].(*modelspkg.Implant)
	assert.True(t, isUser)
	assert.True(t, isImplant)
}

func TestEmbeddedMigrations(t *testing.T) {
	registered, err := EmbeddedMigrations()
	require.NoError(t, err)
	require.Len(t, registered, 2)
	assert.Equal(t, "000001_create_users", registered[0].String())
	assert.Equal(t, "000002_create_implants", registered[1].String())
	assert.Contains(t, registered[1].Up, "idx_implants_owner_size_brand")
	assert.Contains(t, registered[1].Down, "DROP TABLE")
}

func TestLoadMigrations_Rejects(t *testing.T) {
	tests := map[string]fstest.MapFS{
		"missing down": {
			"000001_a.up.sql": {Data: []byte("SELECT 1")},
		},
		"bad version": {
			"x1_a.up.sql":   {Data: []byte("SELECT 1")},
			"x1_a.down.sql": {Data: []byte("SELECT 1")},
		},
		"duplicate version": {
			"000001_a.up.sql":   {Data: []byte("SELECT 1")},
			"000001_a.down.sql": {Data: []byte("SELECT 1")},
			"1_b.up.sql":        {Data: []byte("SELECT 1")},
			"1_b.down.sql":      {Data: []byte("SELECT 1")},
		},
	}
	for name, fsys := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadMigrations(fsys)
			assert.Error(t, err)
		})
	}
}

func TestLoadMigrations_SortsByVersion(t *testing.T) {
	got, err := LoadMigrations(fstest.MapFS{
		"000010_later.up.sql":   {Data: []byte("up10")},
		"000010_later.down.sql": {Data: []byte("down10")},
		"000002_early.up.sql":   {Data: []byte("up2")},
		"000002_early.down.sql": {Data: []byte("down2")},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Migration{Version: 2, Name: "early", Up: "up2", Down: "down2"}, got[0])
	assert.Equal(t, 10, got[1].Version)
}

func TestCheckKnownVersions(t *testing.T) {
	registered, err := EmbeddedMigrations()
	require.NoError(t, err)

	assert.NoError(t, checkKnownVersions(nil, registered))
	assert.NoError(t, checkKnownVersions([]int{1, 2}, registered))

	err = checkKnownVersions([]int{1, 7, 3}, registered)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000003, 000007")
}

func TestMigrator_UpAndDown(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	m := &Migrator{db: db, migrations: []Migration{
		{Version: 1, Name: "widgets", Up: "CREATE TABLE widgets (id INTEGER PRIMARY KEY)", Down: "DROP TABLE widgets"},
		{Version: 2, Name: "gadgets", Up: "CREATE TABLE gadgets (id INTEGER PRIMARY KEY)", Down: "DROP TABLE gadgets"},
	}}
	ctx := context.Background()

	applied, err := m.Applied(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)

	// The ledger DDL is PostgreSQL flavoured; create it the portable way.
	require.NoError(t, db.AutoMigrate(&MigrationRecord{}))
	for _, mig := range m.migrations {
		require.NoError(t, db.Exec(mig.Up).Error)
		require.NoError(t, db.Create(&MigrationRecord{Version: mig.Version, Name: mig.Name}).Error)
	}

	pending, err := m.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, m.Down(ctx, 2))
	assert.False(t, db.Migrator().HasTable("gadgets"))
	applied, err = m.Applied(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, applied)

	assert.Error(t, m.Down(ctx, 2), "already reverted")
	assert.Error(t, m.Down(ctx, 9), "unknown version")
}
