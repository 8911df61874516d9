package database

import (
	"context"
	"fmt"
	"log/slog"

	"implantstock/internal/config"
	"implantstock/internal/middleware"

	"gorm.io/gorm"
)

// DB_SCHEMA_MODE values.
const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// DriverSQLite databases are always shaped by AutoMigrate; the embedded SQL
// migrations are written for PostgreSQL.
const DriverSQLite = "sqlite"

// SchemaPlan says which schema tools a connection will run.
type SchemaPlan struct {
	Mode        string
	SQL         bool
	AutoMigrate bool
}

// SchemaStatus is a SchemaPlan plus the ledger state when SQL migrations apply.
type SchemaStatus struct {
	SchemaPlan
	Environment string
	Applied     []int
	Pending     []Migration
}

// PlanSchema resolves DB_SCHEMA_MODE for the configured driver and
// environment. AutoMigrate is never allowed to touch a production
// PostgreSQL database.
func PlanSchema(cfg *config.Config) (SchemaPlan, error) {
	plan := SchemaPlan{Mode: cfg.DBSchemaMode}
	if plan.Mode == "" {
		plan.Mode = SchemaModeHybrid
	}
	if plan.Mode != SchemaModeSQL && plan.Mode != SchemaModeAuto && plan.Mode != SchemaModeHybrid {
		return plan, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", plan.Mode)
	}

	if cfg.DBDriver == DriverSQLite || cfg.DBDriver == "" {
		plan.AutoMigrate = true
		return plan, nil
	}

	production := cfg.IsProduction()
	switch plan.Mode {
	case SchemaModeSQL:
		plan.SQL = true
	case SchemaModeAuto:
		if production {
			return plan, fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q; use sql or hybrid", cfg.Env)
		}
		plan.AutoMigrate = true
	case SchemaModeHybrid:
		plan.SQL = true
		plan.AutoMigrate = !production
	}
	return plan, nil
}

// ApplySchema brings the schema up to date according to PlanSchema.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	plan, err := PlanSchema(cfg)
	if err != nil {
		return err
	}

	if plan.SQL {
		migrator, err := NewMigrator(db)
		if err != nil {
			return err
		}
		if _, err := migrator.Up(ctx); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
	}

	if plan.AutoMigrate {
		middleware.Logger.Info("running gorm automigrate",
			slog.String("mode", plan.Mode),
			slog.String("driver", cfg.DBDriver),
			slog.String("env", cfg.Env))
		if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}
	return nil
}

// GetSchemaStatus reports what ApplySchema would do without changing anything.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	plan, err := PlanSchema(cfg)
	if err != nil {
		return nil, err
	}
	status := &SchemaStatus{SchemaPlan: plan, Environment: cfg.Env}
	if !plan.SQL {
		return status, nil
	}

	migrator, err := NewMigrator(db)
	if err != nil {
		return nil, err
	}
	if status.Applied, err = migrator.Applied(ctx); err != nil {
		return nil, err
	}
	if status.Pending, err = migrator.Pending(ctx); err != nil {
		return nil, err
	}
	return status, nil
}
