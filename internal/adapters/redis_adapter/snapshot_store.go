// internal/adapters/redis_adapter/snapshot_store.go
package redis_a

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/ammerola/stockpile/internal/core/domain"
	"github.com/ammerola/stockpile/internal/core/ports"
)

// SnapshotStore keeps each namespace's collection as one JSON string value.
type SnapshotStore struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// Statically assert that *SnapshotStore implements the persistence ports.
var (
	_ ports.SnapshotPersister = (*SnapshotStore)(nil)
	_ ports.SnapshotDeleter   = (*SnapshotStore)(nil)
)

// NewSnapshotStore creates a store writing under prefix. An empty prefix
// uses the namespace as the key.
func NewSnapshotStore(client *redis.Client, prefix string, logger *slog.Logger) *SnapshotStore {
	return &SnapshotStore{
		client: client,
		prefix: prefix,
		logger: logger.With(slog.String("adapter", "redis_snapshot_store")),
	}
}

// Load reads the collection stored under namespace.
func (s *SnapshotStore) Load(ctx context.Context, namespace string) (domain.Snapshot, bool, error) {
	key := s.key(namespace)

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			s.logger.DebugContext(ctx, "snapshot not found", slog.String("key", key))
			return domain.Snapshot{}, false, nil
		}
		return domain.Snapshot{}, false, fmt.Errorf("redis get error: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("failed to decode snapshot %s: %w", key, err)
	}

	s.logger.DebugContext(ctx, "snapshot loaded",
		slog.String("key", key),
		slog.Int("count", snap.Len()))
	return snap, true, nil
}

// Save overwrites the collection stored under namespace.
func (s *SnapshotStore) Save(ctx context.Context, namespace string, snapshot domain.Snapshot) error {
	key := s.key(namespace)

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}

	s.logger.DebugContext(ctx, "snapshot saved",
		slog.String("key", key),
		slog.Int("count", snapshot.Len()))
	return nil
}

// Delete removes the key for namespace.
func (s *SnapshotStore) Delete(ctx context.Context, namespace string) error {
	key := s.key(namespace)
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del error: %w", err)
	}
	s.logger.DebugContext(ctx, "snapshot deleted", slog.String("key", key))
	return nil
}

// Ping checks if Redis is accessible
func (s *SnapshotStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping error: %w", err)
	}
	return nil
}

func (s *SnapshotStore) key(namespace string) string {
	return BuildKey(s.prefix, namespace)
}
