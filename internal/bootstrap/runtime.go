// Package bootstrap wires the runtime dependencies shared by the server and the CLI tools.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"implantstock/internal/cache"
	"implantstock/internal/config"
	"implantstock/internal/database"
	"implantstock/internal/middleware"
	"implantstock/internal/repository"
	"implantstock/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// EnsureDefaultUser creates DEFAULT_USERNAME when the users table is empty.
	EnsureDefaultUser bool
	// SkipSchema connects without applying migrations.
	SkipSchema bool
}

// InitRuntime connects to DB and Redis and optionally creates the default user.
// An unreachable Redis is not an error; the returned client is then nil.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: !opts.SkipSchema})
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.EnsureDefaultUser {
		if err := EnsureDefaultUser(cfg, db); err != nil {
			return nil, nil, fmt.Errorf("failed to bootstrap default user: %w", err)
		}
	}

	return db, r, nil
}

// EnsureDefaultUser creates the configured default account on an empty users table.
func EnsureDefaultUser(cfg *config.Config, db *gorm.DB) error {
	if cfg.DefaultPassword == "" {
		return fmt.Errorf("DEFAULT_PASSWORD must be set to create the default user")
	}
	username := cfg.DefaultUsername
	if username == "" {
		username = "user"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := service.NewUserService(repository.NewUserRepository(db), service.BcryptHasher{Cost: cfg.BcryptCost})
	created, err := users.EnsureDefaultUser(ctx, username, cfg.DefaultPassword)
	if err != nil {
		return err
	}
	if created {
		middleware.Logger.Info("default user created", slog.String("username", username))
	}
	return nil
}
