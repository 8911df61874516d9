// Command migrate runs schema operations for the inventory database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"implantstock/internal/config"
	"implantstock/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: migrate <up|auto|status|down> [version]")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	ctx := context.Background()
	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if cfg.DBDriver == database.DriverSQLite || cfg.DBDriver == "" {
			return fmt.Errorf("sql migrations target postgres; use \"auto\" for sqlite")
		}
		migrator, err := database.NewMigrator(db)
		if err != nil {
			return err
		}
		n, err := migrator.Up(ctx)
		if err != nil {
			return fmt.Errorf("sql migrations failed after %d applied: %w", n, err)
		}
		log.Printf("%d sql migrations applied", n)
	case "auto":
		cfg.DBSchemaMode = database.SchemaModeAuto
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return fmt.Errorf("auto schema apply failed: %w", err)
		}
		log.Println("automigrations applied")
	case "status":
		status, err := database.GetSchemaStatus(ctx, db, cfg)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		log.Printf("driver=%s mode=%s env=%s run_sql=%t run_auto=%t applied=%d pending=%d",
			cfg.DBDriver, status.Mode, status.Environment, status.SQL, status.AutoMigrate,
			len(status.Applied), len(status.Pending))
		for _, m := range status.Pending {
			log.Printf("pending: %s", m)
		}
	case "down":
		if flag.NArg() < 2 {
			return fmt.Errorf("usage: migrate down <version>")
		}
		version, err := strconv.Atoi(flag.Arg(1))
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", flag.Arg(1), err)
		}
		migrator, err := database.NewMigrator(db)
		if err != nil {
			return err
		}
		if err := migrator.Down(ctx, version); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		log.Printf("rolled back migration %d", version)
	default:
		return usage()
	}

	return nil
}
