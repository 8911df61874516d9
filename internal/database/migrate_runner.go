package database

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"implantstock/internal/middleware"

	"gorm.io/gorm"
)

// MigrationRecord is a row of the migration_logs ledger.
type MigrationRecord struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255;not null"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

// TableName keeps the ledger name stable across model renames.
func (MigrationRecord) TableName() string {
	return "migration_logs"
}

const createLedgerSQL = `CREATE TABLE IF NOT EXISTS migration_logs (
	version BIGINT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Migrator applies and reverts SQL migrations, recording each one in
// migration_logs inside the same transaction as its script.
type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

// NewMigrator binds the embedded migrations to db.
func NewMigrator(db *gorm.DB) (*Migrator, error) {
	all, err := EmbeddedMigrations()
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}
	return &Migrator{db: db, migrations: all}, nil
}

// Applied lists recorded versions in ascending order. A database without
// a ledger has applied nothing.
func (m *Migrator) Applied(ctx context.Context) ([]int, error) {
	if !m.db.WithContext(ctx).Migrator().HasTable(&MigrationRecord{}) {
		return nil, nil
	}
	var versions []int
	if err := m.db.WithContext(ctx).Model(&MigrationRecord{}).Order("version").Pluck("version", &versions).Error; err != nil {
		return nil, fmt.Errorf("read migration ledger: %w", err)
	}
	return versions, nil
}

// Pending lists the migrations not yet recorded, oldest first.
func (m *Migrator) Pending(ctx context.Context) ([]Migration, error) {
	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkKnownVersions(applied, m.migrations); err != nil {
		return nil, err
	}

	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}
	var pending []Migration
	for _, mig := range m.migrations {
		if !done[mig.Version] {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

// Up applies every pending migration and returns how many ran.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.db.WithContext(ctx).Exec(createLedgerSQL).Error; err != nil {
		return 0, fmt.Errorf("create migration ledger: %w", err)
	}
	pending, err := m.Pending(ctx)
	if err != nil {
		return 0, err
	}

	for i, mig := range pending {
		middleware.Logger.Info("applying migration", slog.String("migration", mig.String()))
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(mig.Up).Error; err != nil {
				return err
			}
			return tx.Create(&MigrationRecord{Version: mig.Version, Name: mig.Name}).Error
		})
		if err != nil {
			return i, fmt.Errorf("migration %s: %w", mig, err)
		}
	}
	return len(pending), nil
}

// Down reverts one applied migration.
func (m *Migrator) Down(ctx context.Context, version int) error {
	var target *Migration
	for i := range m.migrations {
		if m.migrations[i].Version == version {
			target = &m.migrations[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("migration version %d not found", version)
	}

	applied, err := m.Applied(ctx)
	if err != nil {
		return err
	}
	if i := sort.SearchInts(applied, version); i == len(applied) || applied[i] != version {
		return fmt.Errorf("migration %s has not been applied", target)
	}

	middleware.Logger.Info("rolling back migration", slog.String("migration", target.String()))
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(target.Down).Error; err != nil {
			return fmt.Errorf("migration %s down script: %w", target, err)
		}
		return tx.Delete(&MigrationRecord{}, "version = ?", version).Error
	})
}

// checkKnownVersions refuses a ledger that mentions versions this binary
// does not ship, which means the database was migrated by newer code.
func checkKnownVersions(applied []int, registered []Migration) error {
	known := make(map[int]bool, len(registered))
	for _, mig := range registered {
		known[mig.Version] = true
	}

	var unknown []string
	for _, v := range applied {
		if !known[v] {
			unknown = append(unknown, fmt.Sprintf("%06d", v))
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("migration_logs contains versions this build does not know: %s", strings.Join(unknown, ", "))
}
