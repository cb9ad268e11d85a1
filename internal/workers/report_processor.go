// internal/workers/report_processor.go
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

// ReportProcessor summarizes the persisted collection of a namespace
type ReportProcessor struct {
	persister ports.SnapshotPersister
	namespace string
	logger    *slog.Logger
}

// NewReportProcessor creates a new report processor. namespace is used when
// the task does not name one.
func NewReportProcessor(persister ports.SnapshotPersister, namespace string, logger *slog.Logger) *ReportProcessor {
	return &ReportProcessor{
		persister: persister,
		namespace: namespace,
		logger:    logger.With(slog.String("processor", "report")),
	}
}

// GenerateReport handles inventory:report tasks
func (p *ReportProcessor) GenerateReport(ctx context.Context, t *asynq.Task) error {
	var payload ReportPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
		}
	}
	namespace := payload.Namespace
	if namespace == "" {
		namespace = p.namespace
	}

	snap, found, err := p.persister.Load(ctx, namespace)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	if !found {
		p.logger.InfoContext(ctx, "no inventory persisted yet", slog.String("namespace", namespace))
		return nil
	}

	summary := domain.Summarize(snap)

	attrs := []any{
		slog.String("namespace", namespace),
		slog.Int("total_items", summary.TotalItems),
		slog.Int("total_quantity", summary.TotalQuantity),
		slog.String("total_value", summary.TotalValue.StringFixed(2)),
		slog.Int("categories", len(summary.Categories)),
	}
	for _, level := range summary.StockLevels {
		attrs = append(attrs, slog.Int(string(level.Status), level.Count))
	}
	p.logger.InfoContext(ctx, "inventory report generated", attrs...)

	return nil
}
