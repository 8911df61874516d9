package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"implantstock/internal/middleware"
	"implantstock/internal/models"
	"implantstock/internal/notifications"
	"implantstock/internal/observability"
	"implantstock/internal/repository"
	"implantstock/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

const (
	msgDuplicateImplant      = "An implant with this size and brand already exists!"
	msgOtherDuplicateImplant = "Another implant with this size and brand already exists!"
)

// AlertPublisher delivers low-stock alerts; *notifications.Notifier satisfies it.
type AlertPublisher interface {
	PublishStockAlert(ctx context.Context, userID uint, alert notifications.StockAlert) error
}

type InventoryService struct {
	repo   repository.ImplantRepository
	alerts AlertPublisher
}

// ListFilter holds the raw list query parameters.
type ListFilter struct {
	Search      string
	SizeFilter  string
	BrandFilter string
}

// InventoryView is everything the list page shows.
type InventoryView struct {
	Implants []models.Implant `json:"implants"`
	Sizes    []string         `json:"sizes"`
	Brands   []string         `json:"brands"`
	LowStock []models.Implant `json:"low_stock"`
}

// ImplantInput carries the add/edit form fields exactly as submitted.
type ImplantInput struct {
	Size        string
	Brand       string
	CustomBrand string
	Stock       string
	MinStock    string
}

// UseResult reports whether a unit was taken and the implant as it is now.
type UseResult struct {
	Implant *models.Implant
	Used    bool
}

// NewInventoryService wires the inventory rules. alerts may be nil.
func NewInventoryService(repo repository.ImplantRepository, alerts AlertPublisher) *InventoryService {
	return &InventoryService{repo: repo, alerts: alerts}
}

type implantValues struct {
	size     string
	brand    string
	stock    int
	minStock int
}

func parseImplantInput(in ImplantInput) (implantValues, error) {
	size := strings.TrimSpace(in.Size)
	brand := strings.TrimSpace(in.CustomBrand)
	if brand == "" {
		brand = strings.TrimSpace(in.Brand)
	}
	if err := validation.ValidateSize(size); err != nil {
		return implantValues{}, validationError(err)
	}
	if err := validation.ValidateBrand(brand); err != nil {
		return implantValues{}, validationError(err)
	}
	stock, err := validation.ParseCount("Stock", in.Stock)
	if err != nil {
		return implantValues{}, validationError(err)
	}
	minStock, err := validation.ParseCount("Minimum stock", in.MinStock)
	if err != nil {
		return implantValues{}, validationError(err)
	}
	return implantValues{size: size, brand: brand, stock: stock, minStock: minStock}, nil
}

// List returns the owner's implants matching filter plus the filter choices.
func (s *InventoryService) List(ctx context.Context, ownerID uint, filter ListFilter) (*InventoryView, error) {
	ctx, span := observability.StartSpan(ctx, "inventory.List", attribute.Int64("owner.id", int64(ownerID)))
	implants, err := s.repo.List(ctx, ownerID, repository.ImplantFilter{
		Search: filter.Search,
		Size:   filter.SizeFilter,
		Brand:  filter.BrandFilter,
	})
	if err != nil {
		observability.EndSpan(span, err)
		return nil, err
	}
	choices, err := s.repo.Choices(ctx, ownerID)
	observability.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	lowStock := []models.Implant{}
	for _, implant := range implants {
		if implant.IsLowStock() {
			lowStock = append(lowStock, implant)
		}
	}
	return &InventoryView{
		Implants: implants,
		Sizes:    choices.Sizes,
		Brands:   choices.Brands,
		LowStock: lowStock,
	}, nil
}

// Get loads one implant of the owner.
func (s *InventoryService) Get(ctx context.Context, ownerID, id uint) (*models.Implant, error) {
	return s.repo.GetByID(ctx, ownerID, id)
}

// Add creates an implant; (size, brand) must be new for the owner.
func (s *InventoryService) Add(ctx context.Context, ownerID uint, in ImplantInput) (implant *models.Implant, err error) {
	ctx, span := observability.StartSpan(ctx, "inventory.Add", attribute.Int64("owner.id", int64(ownerID)))
	defer func() {
		observability.RecordInventoryOperation("add", outcomeOf(err))
		observability.EndSpan(span, err)
	}()

	values, err := parseImplantInput(in)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindBySizeBrand(ctx, ownerID, values.size, values.brand)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError(msgDuplicateImplant)
	}

	implant = &models.Implant{
		UserID:   ownerID,
		Size:     values.size,
		Brand:    values.brand,
		Stock:    values.stock,
		MinStock: values.minStock,
	}
	if err := s.repo.Create(ctx, implant); err != nil {
		return nil, err
	}
	if implant.IsLowStock() {
		s.alertLowStock(ctx, implant)
	}
	return implant, nil
}

// Edit replaces all editable fields of an owned implant.
func (s *InventoryService) Edit(ctx context.Context, ownerID, id uint, in ImplantInput) (implant *models.Implant, err error) {
	ctx, span := observability.StartSpan(ctx, "inventory.Edit",
		attribute.Int64("owner.id", int64(ownerID)),
		attribute.Int64("implant.id", int64(id)),
	)
	defer func() {
		observability.RecordInventoryOperation("edit", outcomeOf(err))
		observability.EndSpan(span, err)
	}()

	implant, err = s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	values, err := parseImplantInput(in)
	if err != nil {
		return nil, err
	}
	wasLow := implant.IsLowStock()

	clash, err := s.repo.FindBySizeBrand(ctx, ownerID, values.size, values.brand)
	if err != nil {
		return nil, err
	}
	if clash != nil && clash.ID != implant.ID {
		return nil, models.NewConflictError(msgOtherDuplicateImplant)
	}

	implant.Size = values.size
	implant.Brand = values.brand
	implant.Stock = values.stock
	implant.MinStock = values.minStock
	if err := s.repo.Update(ctx, implant); err != nil {
		return nil, err
	}
	if !wasLow && implant.IsLowStock() {
		s.alertLowStock(ctx, implant)
	}
	return implant, nil
}

// Use takes one unit out of stock. At zero stock it is a no-op with Used false.
func (s *InventoryService) Use(ctx context.Context, ownerID, id uint) (result *UseResult, err error) {
	ctx, span := observability.StartSpan(ctx, "inventory.Use",
		attribute.Int64("owner.id", int64(ownerID)),
		attribute.Int64("implant.id", int64(id)),
	)
	defer func() {
		outcome := outcomeOf(err)
		if err == nil && !result.Used {
			outcome = observability.OutcomeRejected
		}
		observability.RecordInventoryOperation("use", outcome)
		observability.EndSpan(span, err)
	}()

	before, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	used, err := s.repo.Decrement(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if !used {
		return &UseResult{Implant: before, Used: false}, nil
	}

	after, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	observability.StockUnitsConsumed.Inc()
	if !before.IsLowStock() && after.IsLowStock() {
		s.alertLowStock(ctx, after)
	}
	return &UseResult{Implant: after, Used: true}, nil
}

// AddStock adds a positive quantity to an owned implant.
func (s *InventoryService) AddStock(ctx context.Context, ownerID, id uint, rawQuantity string) (implant *models.Implant, quantity int, err error) {
	ctx, span := observability.StartSpan(ctx, "inventory.AddStock",
		attribute.Int64("owner.id", int64(ownerID)),
		attribute.Int64("implant.id", int64(id)),
	)
	defer func() {
		observability.RecordInventoryOperation("add_stock", outcomeOf(err))
		observability.EndSpan(span, err)
	}()

	if _, err := s.repo.GetByID(ctx, ownerID, id); err != nil {
		return nil, 0, err
	}
	quantity, err = validation.ParseQuantity("Quantity", rawQuantity)
	if err != nil {
		return nil, 0, validationError(err)
	}
	if err := s.repo.Increment(ctx, ownerID, id, quantity); err != nil {
		return nil, 0, err
	}
	implant, err = s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, 0, err
	}
	observability.StockUnitsAdded.Add(float64(quantity))
	return implant, quantity, nil
}

// UpdateMinStock sets the reorder threshold of an owned implant.
func (s *InventoryService) UpdateMinStock(ctx context.Context, ownerID, id uint, rawMinStock string) (implant *models.Implant, err error) {
	ctx, span := observability.StartSpan(ctx, "inventory.UpdateMinStock",
		attribute.Int64("owner.id", int64(ownerID)),
		attribute.Int64("implant.id", int64(id)),
	)
	defer func() {
		observability.RecordInventoryOperation("update_min_stock", outcomeOf(err))
		observability.EndSpan(span, err)
	}()

	implant, err = s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	minStock, err := validation.ParseCount("Minimum stock", rawMinStock)
	if err != nil {
		return nil, validationError(err)
	}
	wasLow := implant.IsLowStock()
	if err := s.repo.UpdateMinStock(ctx, ownerID, id, minStock); err != nil {
		return nil, err
	}
	implant.MinStock = minStock
	if !wasLow && implant.IsLowStock() {
		s.alertLowStock(ctx, implant)
	}
	return implant, nil
}

// Remove deletes an owned implant permanently.
func (s *InventoryService) Remove(ctx context.Context, ownerID, id uint) (err error) {
	ctx, span := observability.StartSpan(ctx, "inventory.Remove",
		attribute.Int64("owner.id", int64(ownerID)),
		attribute.Int64("implant.id", int64(id)),
	)
	defer func() {
		observability.RecordInventoryOperation("remove", outcomeOf(err))
		observability.EndSpan(span, err)
	}()

	return s.repo.Delete(ctx, ownerID, id)
}

// Clear deletes every implant of the owner and returns how many were removed.
func (s *InventoryService) Clear(ctx context.Context, ownerID uint) (int64, error) {
	return s.repo.DeleteAllForOwner(ctx, ownerID)
}

func (s *InventoryService) alertLowStock(ctx context.Context, implant *models.Implant) {
	observability.LowStockAlerts.Inc()
	if s.alerts == nil {
		return
	}
	if err := s.alerts.PublishStockAlert(ctx, implant.UserID, notifications.NewLowStockAlert(implant)); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish low stock alert",
			slog.Uint64("implant_id", uint64(implant.ID)),
			slog.String("error", err.Error()),
		)
	}
}

// UseMessage is the notice shown after a Use call.
func UseMessage(r *UseResult) string {
	if !r.Used {
		return "Cannot use implant - stock is already zero!"
	}
	return fmt.Sprintf("Used one %s %s implant. Remaining: %d", r.Implant.Brand, r.Implant.Size, r.Implant.Stock)
}

// AddStockMessage is the notice shown after an AddStock call.
func AddStockMessage(implant *models.Implant, quantity int) string {
	return fmt.Sprintf("Added %d %s %s implants. New stock: %d", quantity, implant.Brand, implant.Size, implant.Stock)
}
