// internal/adapters/db/snapshot_repository.go
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/ammerola/stockpile/internal/core/domain"
	"github.com/ammerola/stockpile/internal/core/ports"
)

const snapshotsTable = "inventory_snapshots"

// SnapshotRepository stores one row per namespace with the collection as a
// JSONB array.
type SnapshotRepository struct {
	db     *sql.DB
	sb     squirrel.StatementBuilderType
	now    func() time.Time
	logger *slog.Logger
}

// Statically assert that *SnapshotRepository implements the persistence ports.
var (
	_ ports.SnapshotPersister = (*SnapshotRepository)(nil)
	_ ports.SnapshotDeleter   = (*SnapshotRepository)(nil)
)

// NewSnapshotRepository creates a repository over db.
func NewSnapshotRepository(db *sql.DB, logger *slog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		db:     db,
		sb:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		now:    time.Now,
		logger: logger.With(slog.String("repository", "inventory_snapshots")),
	}
}

// Load reads the collection for namespace.
func (r *SnapshotRepository) Load(ctx context.Context, namespace string) (domain.Snapshot, bool, error) {
	query, args, err := r.sb.
		Select("payload").
		From(snapshotsTable).
		Where(squirrel.Eq{"namespace": namespace}).
		ToSql()
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("failed to build query: %w", err)
	}

	var payload []byte
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Snapshot{}, false, nil
		}
		return domain.Snapshot{}, false, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("failed to decode snapshot %s: %w", namespace, err)
	}

	r.logger.DebugContext(ctx, "snapshot loaded",
		slog.String("namespace", namespace),
		slog.Int("count", snap.Len()))
	return snap, true, nil
}

// Save upserts the collection for namespace.
func (r *SnapshotRepository) Save(ctx context.Context, namespace string, snapshot domain.Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query, args, err := r.sb.
		Insert(snapshotsTable).
		Columns("namespace", "payload", "item_count", "updated_at").
		Values(namespace, string(payload), snapshot.Len(), r.now().UTC()).
		Suffix("ON CONFLICT (namespace) DO UPDATE SET " +
			"payload = EXCLUDED.payload, " +
			"item_count = EXCLUDED.item_count, " +
			"updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	r.logger.DebugContext(ctx, "snapshot saved",
		slog.String("namespace", namespace),
		slog.Int("count", snapshot.Len()))
	return nil
}

// Delete removes the row for namespace.
func (r *SnapshotRepository) Delete(ctx context.Context, namespace string) error {
	query, args, err := r.sb.
		Delete(snapshotsTable).
		Where(squirrel.Eq{"namespace": namespace}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
