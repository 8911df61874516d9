package notifications

import (
	"time"

	"implantstock/internal/models"
)

// EventLowStock is sent when an implant drops to or below its minimum stock.
const EventLowStock = "low_stock"

// StockAlert is the JSON document delivered to stock alert sockets.
type StockAlert struct {
	Type      string    `json:"type"`
	ImplantID uint      `json:"implant_id"`
	Size      string    `json:"size"`
	Brand     string    `json:"brand"`
	Stock     int       `json:"stock"`
	MinStock  int       `json:"min_stock"`
	At        time.Time `json:"at"`
}

// NewLowStockAlert describes implant in its current, low, state.
func NewLowStockAlert(implant *models.Implant) StockAlert {
	return StockAlert{
		Type:      EventLowStock,
		ImplantID: implant.ID,
		Size:      implant.Size,
		Brand:     implant.Brand,
		Stock:     implant.Stock,
		MinStock:  implant.MinStock,
		At:        time.Now().UTC(),
	}
}
