// internal/adapters/queue/alert_publisher.go
package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/stockpile/internal/core/domain"
	"github.com/ammerola/stockpile/internal/core/ports"
	"github.com/ammerola/stockpile/internal/workers"
)

// Enqueuer is satisfied by *asynq.Client
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AlertPublisher enqueues stock alerts for the worker
type AlertPublisher struct {
	client   Enqueuer
	queue    string
	maxRetry int
	logger   *slog.Logger
}

// Statically assert that *AlertPublisher implements the StockAlertPublisher interface.
var _ ports.StockAlertPublisher = (*AlertPublisher)(nil)

// NewAlertPublisher creates a new alert publisher
func NewAlertPublisher(client Enqueuer, queue string, maxRetry int, logger *slog.Logger) *AlertPublisher {
	if queue == "" {
		queue = "default"
	}
	return &AlertPublisher{
		client:   client,
		queue:    queue,
		maxRetry: maxRetry,
		logger:   logger.With(slog.String("adapter", "alert_publisher")),
	}
}

// PublishStockAlert enqueues a stock:alert task
func (p *AlertPublisher) PublishStockAlert(ctx context.Context, alert domain.StockAlert) error {
	task, err := workers.NewStockAlertTask(alert,
		asynq.Queue(p.queue),
		asynq.MaxRetry(p.maxRetry),
		asynq.Retention(24*time.Hour))
	if err != nil {
		return err
	}

	info, err := p.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue stock alert: %w", err)
	}

	p.logger.DebugContext(ctx, "stock alert enqueued",
		slog.String("task_id", info.ID),
		slog.String("queue", info.Queue),
		slog.String("item_id", alert.ItemID))
	return nil
}
