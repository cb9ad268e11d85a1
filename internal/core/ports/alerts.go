// internal/core/ports/alerts.go
package ports

import (
	"context"

	"github.com/ammerola/stockpile/internal/core/domain"
)

// StockAlertPublisher hands stock alerts to background processing.
type StockAlertPublisher interface {
	PublishStockAlert(ctx context.Context, alert domain.StockAlert) error
}

// AlertLog keeps the most recent stock alerts.
type AlertLog interface {
	Record(ctx context.Context, alert domain.StockAlert) error
	Recent(ctx context.Context, limit int) ([]domain.StockAlert, error)
}
