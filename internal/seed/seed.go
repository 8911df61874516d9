// Package seed provides helpers to load starter inventory into a
// development database. These helpers are intended for development and
// testing only.
package seed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"implantstock/internal/middleware"
	"implantstock/internal/models"
	"implantstock/internal/repository"
	"implantstock/internal/service"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// CatalogEntry is one implant line of a YAML catalog.
type CatalogEntry struct {
	Size     string `yaml:"size"`
	Brand    string `yaml:"brand"`
	Stock    int    `yaml:"stock"`
	MinStock int    `yaml:"min_stock"`
}

// Catalog is the document read by LoadCatalog:
//
//	implants:
//	  - size: 4.0x10
//	    brand: Hiossen
//	    stock: 5
//	    min_stock: 2
type Catalog struct {
	Implants []CatalogEntry `yaml:"implants"`
}

// Result counts what a seeding run did.
type Result struct {
	Created int
	Skipped int
}

// ParseCatalog decodes a YAML catalog.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	var catalog Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&catalog); err != nil {
		if err == io.EOF {
			return &catalog, nil
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return &catalog, nil
}

// LoadCatalog reads a YAML catalog from disk.
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ParseCatalog(f)
}

// Seeder writes implants for one owner through the inventory service so
// seeded rows obey the same validation as the forms.
type Seeder struct {
	users     repository.UserRepository
	inventory *service.InventoryService
}

// NewSeeder creates a Seeder bound to db. Seeding never publishes stock alerts.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		users:     repository.NewUserRepository(db),
		inventory: service.NewInventoryService(repository.NewImplantRepository(db), nil),
	}
}

// Owner resolves the account that seeded implants belong to.
func (s *Seeder) Owner(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return user, nil
}

// Import adds every catalog entry for ownerID. Pairs the owner already
// has are skipped; any other rejection aborts the run.
func (s *Seeder) Import(ctx context.Context, ownerID uint, catalog *Catalog) (Result, error) {
	var res Result
	for i, entry := range catalog.Implants {
		_, err := s.inventory.Add(ctx, ownerID, service.ImplantInput{
			Size:     entry.Size,
			Brand:    entry.Brand,
			Stock:    strconv.Itoa(entry.Stock),
			MinStock: strconv.Itoa(entry.MinStock),
		})
		switch {
		case err == nil:
			res.Created++
		case models.HasCode(err, models.CodeConflict):
			res.Skipped++
		default:
			return res, fmt.Errorf("catalog entry %d (%s %s): %w", i+1, entry.Brand, entry.Size, err)
		}
	}

	middleware.Logger.Info("catalog imported",
		slog.Uint64("user_id", uint64(ownerID)),
		slog.Int("created", res.Created),
		slog.Int("skipped", res.Skipped))
	return res, nil
}

// Demo imports n generated implants. The same seed yields the same catalog.
func (s *Seeder) Demo(ctx context.Context, ownerID uint, n int, seed int64) (Result, error) {
	return s.Import(ctx, ownerID, DemoCatalog(n, seed))
}

// Clear deletes every implant of ownerID.
func (s *Seeder) Clear(ctx context.Context, ownerID uint) (int64, error) {
	removed, err := s.inventory.Clear(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("clear inventory: %w", err)
	}
	middleware.Logger.Info("inventory cleared",
		slog.Uint64("user_id", uint64(ownerID)),
		slog.Int64("removed", removed))
	return removed, nil
}
