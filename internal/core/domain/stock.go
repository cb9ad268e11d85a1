// internal/core/domain/stock.go
package domain

import (
	"math"
	"time"
)

// StockStatus buckets an item by how much of it is on hand
type StockStatus string

// Stock status constants
const (
	StockOut         StockStatus = "out_of_stock"
	StockLow         StockStatus = "low_stock"
	StockIn          StockStatus = "in_stock"
	StockWellStocked StockStatus = "well_stocked"
)

// Thresholds separating the stock statuses
const (
	LowStockThreshold    = 10
	WellStockedThreshold = 50
)

// StockStatuses lists every status from worst to best.
var StockStatuses = []StockStatus{StockOut, StockLow, StockIn, StockWellStocked}

// StatusFor classifies a quantity.
func StatusFor(quantity int) StockStatus {
	switch {
	case quantity <= 0:
		return StockOut
	case quantity < LowStockThreshold:
		return StockLow
	case quantity < WellStockedThreshold:
		return StockIn
	default:
		return StockWellStocked
	}
}

// Label returns the display text for the status.
func (s StockStatus) Label() string {
	switch s {
	case StockOut:
		return "Out of Stock"
	case StockLow:
		return "Low Stock"
	case StockIn:
		return "In Stock"
	case StockWellStocked:
		return "Well Stocked"
	default:
		return string(s)
	}
}

func (s StockStatus) rank() int {
	for i, st := range StockStatuses {
		if st == s {
			return i
		}
	}
	return len(StockStatuses)
}

// ClampQuantity applies delta to quantity and floors the result at zero.
func ClampQuantity(quantity, delta int) int {
	if delta > 0 && quantity > math.MaxInt-delta {
		return math.MaxInt
	}
	if next := quantity + delta; next > 0 {
		return next
	}
	return 0
}

// StockAlert is raised when an adjustment moves an item into low or out of
// stock.
type StockAlert struct {
	ItemID           string      `json:"item_id"`
	Name             string      `json:"name"`
	Category         string      `json:"category"`
	PreviousQuantity int         `json:"previous_quantity"`
	Quantity         int         `json:"quantity"`
	Status           StockStatus `json:"status"`
	OccurredAt       time.Time   `json:"occurred_at"`
}

// DetectStockAlert compares an item before and after an adjustment.
func DetectStockAlert(before, after Item, at time.Time) (StockAlert, bool) {
	prev, next := before.StockStatus(), after.StockStatus()
	if next != StockOut && next != StockLow {
		return StockAlert{}, false
	}
	if next.rank() >= prev.rank() {
		return StockAlert{}, false
	}
	return StockAlert{
		ItemID:           after.ID,
		Name:             after.Name,
		Category:         after.Category,
		PreviousQuantity: before.Quantity,
		Quantity:         after.Quantity,
		Status:           next,
		OccurredAt:       at,
	}, true
}
