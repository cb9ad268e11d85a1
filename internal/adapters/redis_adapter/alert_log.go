// internal/adapters/redis_adapter/alert_log.go
package redis_a

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/ammerola/stockpile/internal/core/domain"
	"github.com/ammerola/stockpile/internal/core/ports"
)

// DefaultAlertLogSize caps the alert list when no size is configured.
const DefaultAlertLogSize = 50

// AlertLogKey is the list key holding the alerts of namespace.
func AlertLogKey(prefix, namespace string) string {
	return BuildKey(prefix, "alerts", namespace)
}

// AlertLog keeps the most recent stock alerts in a capped list, newest first.
type AlertLog struct {
	client *redis.Client
	key    string
	size   int
	logger *slog.Logger
}

// Statically assert that *AlertLog implements the AlertLog interface.
var _ ports.AlertLog = (*AlertLog)(nil)

// NewAlertLog creates an alert log stored at key.
func NewAlertLog(client *redis.Client, key string, size int, logger *slog.Logger) *AlertLog {
	if size <= 0 {
		size = DefaultAlertLogSize
	}
	return &AlertLog{
		client: client,
		key:    key,
		size:   size,
		logger: logger.With(slog.String("adapter", "redis_alert_log")),
	}
}

// Record pushes alert and trims the list to its cap.
func (l *AlertLog) Record(ctx context.Context, alert domain.StockAlert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	_, err = l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, l.key, data)
		pipe.LTrim(ctx, l.key, 0, int64(l.size-1))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis lpush error: %w", err)
	}

	l.logger.DebugContext(ctx, "stock alert recorded",
		slog.String("item_id", alert.ItemID),
		slog.String("status", string(alert.Status)))
	return nil
}

// Recent returns up to limit alerts, newest first. Entries that fail to
// decode are skipped.
func (l *AlertLog) Recent(ctx context.Context, limit int) ([]domain.StockAlert, error) {
	if limit <= 0 || limit > l.size {
		limit = l.size
	}

	raw, err := l.client.LRange(ctx, l.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange error: %w", err)
	}

	alerts := make([]domain.StockAlert, 0, len(raw))
	for _, entry := range raw {
		var alert domain.StockAlert
		if err := json.Unmarshal([]byte(entry), &alert); err != nil {
			l.logger.WarnContext(ctx, "skipping undecodable stock alert",
				slog.String("key", l.key),
				slog.String("error", err.Error()))
			continue
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}
