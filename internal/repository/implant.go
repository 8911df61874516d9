package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"implantstock/internal/cache"
	"implantstock/internal/models"
	"implantstock/internal/observability"

	"gorm.io/gorm"
)

// ImplantFilter narrows an owner's inventory listing. Empty fields do not filter.
type ImplantFilter struct {
	// Search matches the brand case-insensitively as a substring.
	Search string
	// Size matches the size case-insensitively as a substring.
	Size string
	// Brand matches the brand exactly.
	Brand string
}

// Choices lists the distinct sizes and brands an owner has on record.
type Choices struct {
	Sizes  []string `json:"sizes"`
	Brands []string `json:"brands"`
}

// ImplantRepository defines persistence operations for implants. Every
// operation is scoped to the owning user; rows of other owners behave as absent.
type ImplantRepository interface {
	List(ctx context.Context, ownerID uint, filter ImplantFilter) ([]models.Implant, error)
	Choices(ctx context.Context, ownerID uint) (*Choices, error)
	GetByID(ctx context.Context, ownerID, id uint) (*models.Implant, error)
	FindBySizeBrand(ctx context.Context, ownerID uint, size, brand string) (*models.Implant, error)
	Create(ctx context.Context, implant *models.Implant) error
	Update(ctx context.Context, implant *models.Implant) error
	// Decrement removes one unit if any is left and reports whether it did.
	Decrement(ctx context.Context, ownerID, id uint) (bool, error)
	Increment(ctx context.Context, ownerID, id uint, quantity int) error
	UpdateMinStock(ctx context.Context, ownerID, id uint, minStock int) error
	Delete(ctx context.Context, ownerID, id uint) error
	DeleteAllForOwner(ctx context.Context, ownerID uint) (int64, error)
}

type implantRepository struct {
	db *gorm.DB
}

// NewImplantRepository returns a new ImplantRepository implementation.
func NewImplantRepository(db *gorm.DB) ImplantRepository {
	return &implantRepository{db: db}
}

func (r *implantRepository) owned(ctx context.Context, ownerID uint) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Implant{}).Where("user_id = ?", ownerID)
}

func (r *implantRepository) List(ctx context.Context, ownerID uint, filter ImplantFilter) ([]models.Implant, error) {
	defer observability.TrackQuery("list", "implants")()

	query := r.owned(ctx, ownerID)
	if filter.Search != "" {
		query = query.Where(`LOWER(brand) LIKE LOWER(?) ESCAPE '\'`, containsPattern(filter.Search))
	}
	if filter.Size != "" {
		query = query.Where(`LOWER(size) LIKE LOWER(?) ESCAPE '\'`, containsPattern(filter.Size))
	}
	if filter.Brand != "" {
		query = query.Where("brand = ?", filter.Brand)
	}

	implants := []models.Implant{}
	if err := query.Order("brand ASC, size ASC, id ASC").Find(&implants).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return implants, nil
}

func (r *implantRepository) Choices(ctx context.Context, ownerID uint) (*Choices, error) {
	var choices Choices
	err := cache.Aside(ctx, cache.InventoryChoicesKey(ownerID), &choices, cache.InventoryChoicesTTL, func() error {
		defer observability.TrackQuery("choices", "implants")()

		sizes := []string{}
		if err := r.owned(ctx, ownerID).Distinct().Pluck("size", &sizes).Error; err != nil {
			return models.NewInternalError(err)
		}
		brands := []string{}
		if err := r.owned(ctx, ownerID).Distinct().Pluck("brand", &brands).Error; err != nil {
			return models.NewInternalError(err)
		}
		sort.Strings(sizes)
		sort.Strings(brands)
		choices = Choices{Sizes: sizes, Brands: brands}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &choices, nil
}

func (r *implantRepository) GetByID(ctx context.Context, ownerID, id uint) (*models.Implant, error) {
	defer observability.TrackQuery("get_by_id", "implants")()
	var implant models.Implant
	if err := r.owned(ctx, ownerID).Where("id = ?", id).First(&implant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Implant", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &implant, nil
}

func (r *implantRepository) FindBySizeBrand(ctx context.Context, ownerID uint, size, brand string) (*models.Implant, error) {
	defer observability.TrackQuery("find_by_size_brand", "implants")()
	var implant models.Implant
	err := r.owned(ctx, ownerID).Where("size = ? AND brand = ?", size, brand).First(&implant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &implant, nil
}

func (r *implantRepository) Create(ctx context.Context, implant *models.Implant) error {
	defer observability.TrackQuery("create", "implants")()
	if err := r.db.WithContext(ctx).Create(implant).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("An implant with this size and brand already exists!")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateInventory(ctx, implant.UserID)
	return nil
}

// Update writes size, brand, stock and min stock of an existing implant.
func (r *implantRepository) Update(ctx context.Context, implant *models.Implant) error {
	defer observability.TrackQuery("update", "implants")()
	result := r.owned(ctx, implant.UserID).
		Where("id = ?", implant.ID).
		Updates(map[string]interface{}{
			"size":      implant.Size,
			"brand":     implant.Brand,
			"stock":     implant.Stock,
			"min_stock": implant.MinStock,
		})
	if result.Error != nil {
		if isUniqueConstraintError(result.Error) {
			return models.NewConflictError("Another implant with this size and brand already exists!")
		}
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Implant", implant.ID)
	}
	cache.InvalidateInventory(ctx, implant.UserID)
	return nil
}

func (r *implantRepository) Decrement(ctx context.Context, ownerID, id uint) (bool, error) {
	defer observability.TrackQuery("decrement", "implants")()
	result := r.owned(ctx, ownerID).
		Where("id = ? AND stock > 0", id).
		Update("stock", gorm.Expr("stock - ?", 1))
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *implantRepository) Increment(ctx context.Context, ownerID, id uint, quantity int) error {
	defer observability.TrackQuery("increment", "implants")()
	if quantity <= 0 || quantity > models.MaxStock {
		return models.NewValidationError(fmt.Sprintf("Quantity must be between 1 and %d", models.MaxStock))
	}
	result := r.owned(ctx, ownerID).
		Where("id = ? AND stock <= ?", id, models.MaxStock-quantity).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, ownerID, id); err != nil {
			return err
		}
		return models.NewValidationError(fmt.Sprintf("Stock cannot exceed %d", models.MaxStock))
	}
	return nil
}

func (r *implantRepository) UpdateMinStock(ctx context.Context, ownerID, id uint, minStock int) error {
	defer observability.TrackQuery("update_min_stock", "implants")()
	result := r.owned(ctx, ownerID).Where("id = ?", id).Update("min_stock", minStock)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Implant", id)
	}
	return nil
}

func (r *implantRepository) Delete(ctx context.Context, ownerID, id uint) error {
	defer observability.TrackQuery("delete", "implants")()
	result := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", ownerID, id).Delete(&models.Implant{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Implant", id)
	}
	cache.InvalidateInventory(ctx, ownerID)
	return nil
}

func (r *implantRepository) DeleteAllForOwner(ctx context.Context, ownerID uint) (int64, error) {
	defer observability.TrackQuery("delete_all", "implants")()
	result := r.db.WithContext(ctx).Where("user_id = ?", ownerID).Delete(&models.Implant{})
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	cache.InvalidateInventory(ctx, ownerID)
	return result.RowsAffected, nil
}
