package models

import (
	"encoding/json"
	"math"
	"time"
)

// Column widths for implant text fields.
const (
	MaxSizeLength  = 50
	MaxBrandLength = 100
)

// MaxStock bounds stock, min_stock and restock quantities so every counter
// fits a 32-bit integer column on any driver.
const MaxStock = math.MaxInt32

// CommonBrands is the picklist offered on the add and edit forms. It never
// restricts which brand values may be stored.
var CommonBrands = []string{"Hiossen", "Megagen", "Astra"}

// Implant is one stock line in a user's inventory. (UserID, Size, Brand) is unique.
type Implant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_implants_owner_size_brand,priority:1" json:"user_id"`
	Size      string    `gorm:"size:50;not null;uniqueIndex:idx_implants_owner_size_brand,priority:2" json:"size"`
	Brand     string    `gorm:"size:100;not null;uniqueIndex:idx_implants_owner_size_brand,priority:3" json:"brand"`
	Stock     int       `gorm:"not null" json:"stock"`
	MinStock  int       `gorm:"not null" json:"min_stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsLowStock reports whether the stock count has reached the reorder threshold.
func (i Implant) IsLowStock() bool {
	return i.Stock <= i.MinStock
}

// MarshalJSON adds the derived is_low_stock flag.
func (i Implant) MarshalJSON() ([]byte, error) {
	type plain Implant
	return json.Marshal(struct {
		plain
		IsLowStock bool `json:"is_low_stock"`
	}{
		plain:      plain(i),
		IsLowStock: i.IsLowStock(),
	})
}
