// internal/workers/tasks.go
package workers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/stockpile/internal/core/domain"
)

const (
	TypeStockAlert      = "stock:alert"
	TypeInventoryReport = "inventory:report"
)

// ReportPayload asks for a summary of one namespace.
type ReportPayload struct {
	Namespace   string    `json:"namespace"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewStockAlertTask wraps alert in a stock:alert task.
func NewStockAlertTask(alert domain.StockAlert, opts ...asynq.Option) (*asynq.Task, error) {
	b, err := json.Marshal(alert)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stock alert: %w", err)
	}
	return asynq.NewTask(TypeStockAlert, b, opts...), nil
}

// NewInventoryReportTask builds an inventory:report task for namespace.
func NewInventoryReportTask(namespace string, opts ...asynq.Option) (*asynq.Task, error) {
	b, err := json.Marshal(ReportPayload{Namespace: namespace, RequestedAt: time.Now().UTC()})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report payload: %w", err)
	}
	return asynq.NewTask(TypeInventoryReport, b, opts...), nil
}
