package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"implantstock/internal/database"
	"implantstock/internal/models"
	"implantstock/internal/notifications"
	"implantstock/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	alerts []notifications.StockAlert
	owners []uint
	err    error
}

func (p *recordingPublisher) PublishStockAlert(_ context.Context, userID uint, alert notifications.StockAlert) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, alert)
	p.owners = append(p.owners, userID)
	return p.err
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.alerts)
}

type inventoryFixture struct {
	db      *gorm.DB
	svc     *InventoryService
	alerts  *recordingPublisher
	ownerID uint
	otherID uint
}

func newInventoryFixture(t *testing.T) *inventoryFixture {
	t.Helper()

	dsn := database.SQLiteDSN(filepath.Join(t.TempDir(), "inventory.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	owner := models.User{Username: "owner", PasswordHash: "x"}
	other := models.User{Username: "other", PasswordHash: "x"}
	require.NoError(t, db.Create(&owner).Error)
	require.NoError(t, db.Create(&other).Error)

	alerts := &recordingPublisher{}
	return &inventoryFixture{
		db:      db,
		svc:     NewInventoryService(repository.NewImplantRepository(db), alerts),
		alerts:  alerts,
		ownerID: owner.ID,
		otherID: other.ID,
	}
}

func (f *inventoryFixture) add(t *testing.T, owner uint, size, brand, stock, minStock string) *models.Implant {
	t.Helper()
	implant, err := f.svc.Add(context.Background(), owner, ImplantInput{Size: size, Brand: brand, Stock: stock, MinStock: minStock})
	require.NoError(t, err)
	return implant
}

func TestInventoryService_AddThenUse(t *testing.T) {
	f := newInventoryFixture(t)
	ctx := context.Background()

	implant := f.add(t, f.ownerID, "10x8", "Hiossen", "5", "2")
	assert.False(t, implant.IsLowStock())

	res, err := f.svc.Use(ctx, f.ownerID, implant.ID)
	require.NoError(t, err)
	assert.True(t, res.Used)
	assert.Equal(t, 4, res.Implant.Stock)
	assert.Equal(t, "Used one Hiossen 10x8 implant. Remaining: 4", UseMessage(res))
}

func TestInventoryService_UseStopsAtZero(t *testing.T) {
	f := newInventoryFixture(t)
	ctx := context.Background()
	implant := f.add(t, f.ownerID, "10x8", "Hiossen", "5", "2")

	var noops int
	for i := 0; i < 10; i++ {
		res, err := f.svc.Use(ctx, f.ownerID, implant.ID)
		require.NoError(t, err)
		if !res.Used {
			noops++
			assert.Equal(t, "Cannot use implant - stock is already zero!", UseMessage(res))
			assert.Zero(t, res.Implant.Stock)
		}
	}
	assert.Equal(t, 5, noops)

	stored, err := f.svc.Get(ctx, f.ownerID, implant.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.Stock)
}

func TestInventoryService_AddValidation(t *testing.T) {
	f := newInventoryFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   ImplantInput
		msg  string
	}{
		{name: "empty size", in: ImplantInput{Size: "  ", Brand: "Astra", Stock: "1", MinStock: "1"}, msg: "Size is required"},
		{name: "empty brand", in: ImplantInput{Size: "10x8", Stock: "1", MinStock: "1"}, msg: "Brand is required"},
		{name: "text stock", in: ImplantInput{Size: "10x8", Brand: "Astra", Stock: "five", MinStock: "1"}, msg: "Stock must be a whole number"},
		{name: "negative stock", in: ImplantInput{Size: "10x8", Brand: "Astra", Stock: "-1", MinStock: "1"}, msg: "Stock must not be negative"},
		{name: "empty min stock", in: ImplantInput{Size: "10x8", Brand: "Astra", Stock: "1", MinStock: ""}, msg: "Minimum stock must be a whole number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Add(ctx, f.ownerID, tt.in)
			assertAppError(t, err, models.CodeValidation, tt.msg)
		})
	}

	view, err := f.svc.List(ctx, f.ownerID, ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, view.Implants)
}

func TestInventoryService_CustomBrandWinsAndIsTrimmed(t *testing.T) {
	f := newInventoryFixture(t)
	implant, err := f.svc.Add(context.Background(), f.ownerID, ImplantInput{
		Size: " 4.0x10 ", Brand: "Astra", CustomBrand: "  Straumann ", Stock: "3", MinStock: "1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Straumann", implant.Brand)
	assert.Equal(t, "4.0x10", implant.Size)
}

func TestInventoryService_DuplicateIsPerOwner(t *testing.T) {
	f := newInventoryFixture(t)
	ctx := context.Background()

	f.add(t, f.ownerID, "10x8", "Hiossen", "5", "2")
	_, err := f.svc.Add(ctx, f.ownerID, ImplantInput{Size: "10x8", Brand: "Hiossen", Stock: "1", MinStock: "0"})
	assertAppError(t, err, models.CodeConflict, "An implant with this size and brand already exists!")

	_, err = f.svc.Add(ctx, f.ownerID, ImplantInput{Size: " 10x8 ", Brand: "Hiossen ", Stock: "1", MinStock: "0"})
	assertAppError(t, err, models.CodeConflict, "An implant with this size and brand already exists!")

	f.add(t, f.otherID, "10x8", "Hiossen", "1", "0")
	f.add(t, f.ownerID, "10x8", "hiossen", "1", "0")
}

func TestInventoryService_EditCollisionLeavesStoreUnchanged(t *testing.T) {
	f := newInventoryFixture(t)
	ctx := context.Background()

	f.add(t, f.ownerID, "10x8", "Hiossen", "5", "2")
	second := f.add(t, f.ownerID, "4.0x10", "Astra", "7", "1")

	_, err := f.svc.Edit(ctx, f.ownerID, second.ID, ImplantInput{Size: "10x8", Brand: "Hiossen", Stock: "0", MinStock: "0"})
	assertAppError(t, err, models.CodeConflict, "Another implant with this size and brand already exists!")

	stored, err := f.svc.Get(ctx, f.ownerID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Astra", stored.Brand)
	assert.Equal(t, 7, stored.Stock)
}

func TestInventoryService_EditOwnPairAndValues(t *testing.T) {
	f := newInventoryFixture(t)
	ctx := context.Background()
	implant := f.add(t, f.ownerID, "10x8", "Hiossen", "5", "2")

	edited, err := f.svc.Edit(ctx, f.ownerID, implant.ID, ImplantInput{Size: "10x8", Brand: "Hiossen", Stock: "9", MinStock: "3"})
	require.NoError(t, err)
	assert.Equal(t, 9, edited.Stock)

	_, err = f.svc.Edit(ctx, f.ownerID, implant.ID, ImplantInput{Size: "10x8", Brand: "Hiossen", Stock: "x", MinStock: "3"})
	assertAppError(t, err, models.CodeValidation, "Stock must be a whole number")
}

func TestInventoryService_ForeignIDIsNotFound(t *testing.T) {
	f := newInventoryFixture(t)
	ctx := context.Background()
	implant := f.add(t, f.ownerID, "10x8", "Hiossen", "5", "2")

	_, err := f.svc.Get(ctx, f.otherID, implant.ID)
	assertAppError(t, err, models.CodeNotFound, "")
	_, err = f.svc.Edit(ctx, f.otherID, implant.ID, ImplantInput{Size: "a", Brand: "b", Stock: "1", MinStock: "1"})
	assertAppError(t, err, models.CodeNotFound, "")
	_, err = f.svc.Use(ctx, f.otherID, implant.ID)
	assertAppError(t, err, models.CodeNotFound, "")
	_, _, err = f.svc.AddStock(ctx, f.otherID, implant.ID, "oops")
	assertAppError(t, err, models.CodeNotFound, "")
	_, err = f.svc.UpdateMinStock(ctx, f.otherID, implant.ID, "1")
	assertAppError(t, err, models.CodeNotFound, "")
	assertAppError(t, f.svc.Remove(ctx, f.otherID, implant.ID), models.CodeNotFound, "")

	stored, err := f.svc.Get(ctx, f.ownerID, implant.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Stock)
}

func TestInventoryService_AddStockClearsLowStock(t *testing.T) {
	f := newInventoryFixture(t)
	ctx := context.Background()

	implant := f.add(t, f.ownerID, "10x8", "Hiossen", "2", "2")
	assert.True(t, implant.IsLowStock())

	updated, qty, err := f.svc.AddStock(ctx, f.ownerID, implant.ID, "1")
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Stock)
	assert.False(t, updated.IsLowStock())
	assert.Equal(t, "Added 1 Hiossen 10x8 implants. New stock: 3", AddStockMessage(updated, qty))

	for _, bad := range []string{"0", "-2", "two", ""} {
		_, _, err := f.svc.AddStock(ctx, f.ownerID, implant.ID, bad)
		assertAppError(t, err, models.CodeValidation, "")
	}
}

func TestInventoryService_AddStockRejectsOverflow(t *testing.T) {
	f := newInventoryFixture(t)
	ctx := context.Background()

	implant := f.add(t, f.ownerID, "10x8", "Hiossen", "5", "2")

	for _, huge := range []string{"9223372036854775807", "2147483648", "2147483647"} {
		_, _, err := f.svc.AddStock(ctx, f.ownerID, implant.ID, huge)
		assertAppError(t, err, models.CodeValidation, "")
	}

	view, err := f.svc.List(ctx, f.ownerID, ListFilter{})
	require.NoError(t, err)
	require.Len(t, view.Implants, 1)
	assert.Equal(t, 5, view.Implants[0].Stock)

	_, err = f.svc.Add(ctx, f.ownerID, ImplantInput{Size: "4.0x10", Brand: "Astra", Stock: "9223372036854775807", MinStock: "1"})
	assertAppError(t, err, models.CodeValidation, "")
}

func TestInventoryService_UpdateMinStockAndRemove(t *testing.T) {
	f := newInventoryFixture(t)
	ctx := context.Background()
	implant := f.add(t, f.ownerID, "10x8", "Hiossen", "5", "2")

	_, err := f.svc.UpdateMinStock(ctx, f.ownerID, implant.ID, "-1")
	assertAppError(t, err, models.CodeValidation, "Minimum stock must not be negative")

	updated, err := f.svc.UpdateMinStock(ctx, f.ownerID, implant.ID, "5")
	require.NoError(t, err)
	assert.Equal(t, 5, updated.MinStock)
	assert.True(t, updated.IsLowStock())

	require.NoError(t, f.svc.Remove(ctx, f.ownerID, implant.ID))
	_, err = f.svc.Get(ctx, f.ownerID, implant.ID)
	assertAppError(t, err, models.CodeNotFound, "")
}

func TestInventoryService_ListView(t *testing.T) {
	f := newInventoryFixture(t)
	ctx := context.Background()

	f.add(t, f.ownerID, "4.5x10", "Megagen", "3", "1")
	f.add(t, f.ownerID, "10x8", "Hiossen", "1", "2")
	f.add(t, f.ownerID, "4.0x10", "Astra", "0", "0")
	f.add(t, f.otherID, "9x9", "Other", "1", "1")

	view, err := f.svc.List(ctx, f.ownerID, ListFilter{})
	require.NoError(t, err)
	require.Len(t, view.Implants, 3)
	assert.Equal(t, "Astra", view.Implants[0].Brand)
	assert.Equal(t, []string{"Astra", "Hiossen", "Megagen"}, view.Brands)
	assert.Equal(t, []string{"10x8", "4.0x10", "4.5x10"}, view.Sizes)
	require.Len(t, view.LowStock, 2)

	filtered, err := f.svc.List(ctx, f.ownerID, ListFilter{SizeFilter: "x10"})
	require.NoError(t, err)
	assert.Len(t, filtered.Implants, 2)
	assert.Len(t, filtered.LowStock, 1)
	assert.Equal(t, view.Brands, filtered.Brands, "choices ignore active filters")
}

func TestInventoryService_LowStockAlerts(t *testing.T) {
	f := newInventoryFixture(t)
	ctx := context.Background()

	implant := f.add(t, f.ownerID, "10x8", "Hiossen", "3", "1")
	assert.Zero(t, f.alerts.count())

	_, err := f.svc.Use(ctx, f.ownerID, implant.ID)
	require.NoError(t, err)
	assert.Zero(t, f.alerts.count())

	_, err = f.svc.Use(ctx, f.ownerID, implant.ID)
	require.NoError(t, err)
	require.Equal(t, 1, f.alerts.count())
	assert.Equal(t, f.ownerID, f.alerts.owners[0])
	assert.Equal(t, notifications.EventLowStock, f.alerts.alerts[0].Type)
	assert.Equal(t, 1, f.alerts.alerts[0].Stock)

	// Already low: further use does not alert again.
	_, err = f.svc.Use(ctx, f.ownerID, implant.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.alerts.count())

	f.add(t, f.ownerID, "4.0x10", "Astra", "0", "2")
	assert.Equal(t, 2, f.alerts.count())
}

func TestInventoryService_PublishFailureDoesNotFailUse(t *testing.T) {
	f := newInventoryFixture(t)
	f.alerts.err = errors.New("redis down")

	implant := f.add(t, f.ownerID, "10x8", "Hiossen", "1", "0")
	res, err := f.svc.Use(context.Background(), f.ownerID, implant.ID)
	require.NoError(t, err)
	assert.True(t, res.Used)
	assert.Equal(t, 1, f.alerts.count())
}

func TestInventoryService_NilPublisher(t *testing.T) {
	f := newInventoryFixture(t)
	svc := NewInventoryService(repository.NewImplantRepository(f.db), nil)
	_, err := svc.Add(context.Background(), f.ownerID, ImplantInput{Size: "1", Brand: "b", Stock: "0", MinStock: "0"})
	assert.NoError(t, err)
}
