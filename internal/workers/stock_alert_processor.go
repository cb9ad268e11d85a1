// internal/workers/stock_alert_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ammerola/stockpile/internal/core/domain"
	"github.com/ammerola/stockpile/internal/core/ports"
)

// StockAlertProcessor records stock alerts raised by the API
type StockAlertProcessor struct {
	log    ports.AlertLog
	logger *slog.Logger
}

// NewStockAlertProcessor creates a new stock alert processor
func NewStockAlertProcessor(log ports.AlertLog, logger *slog.Logger) *StockAlertProcessor {
	return &StockAlertProcessor{
		log:    log,
		logger: logger.With(slog.String("processor", "stock_alert")),
	}
}

// ProcessStockAlert handles stock:alert tasks
func (p *StockAlertProcessor) ProcessStockAlert(ctx context.Context, t *asynq.Task) error {
	var alert domain.StockAlert
	if err := json.Unmarshal(t.Payload(), &alert); err != nil {
		// Retrying cannot fix a corrupt payload
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if alert.ItemID == "" {
		return fmt.Errorf("stock alert without item id: %w", asynq.SkipRetry)
	}

	level := slog.LevelInfo
	if alert.Status == domain.StockOut {
		level = slog.LevelWarn
	}
	p.logger.Log(ctx, level, "stock alert",
		slog.String("item_id", alert.ItemID),
		slog.String("name", alert.Name),
		slog.String("category", alert.Category),
		slog.String("status", string(alert.Status)),
		slog.Int("previous_quantity", alert.PreviousQuantity),
		slog.Int("quantity", alert.Quantity))

	if err := p.log.Record(ctx, alert); err != nil {
		return fmt.Errorf("failed to record stock alert: %w", err)
	}
	return nil
}
