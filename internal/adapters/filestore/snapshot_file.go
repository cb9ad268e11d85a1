// internal/adapters/filestore/snapshot_file.go
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ammerola/stockpile/internal/core/domain"
	"github.com/ammerola/stockpile/internal/core/ports"
)

// SnapshotFile keeps each namespace's collection in <dir>/<namespace>.json.
// Writes go to a temporary file that is renamed over the target, so a crash
// never leaves a half-written collection behind.
type SnapshotFile struct {
	dir    string
	logger *slog.Logger
}

// Statically assert that *SnapshotFile implements the persistence ports.
var (
	_ ports.SnapshotPersister = (*SnapshotFile)(nil)
	_ ports.SnapshotDeleter   = (*SnapshotFile)(nil)
)

// NewSnapshotFile creates dir if needed.
func NewSnapshotFile(dir string, logger *slog.Logger) (*SnapshotFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &SnapshotFile{
		dir:    dir,
		logger: logger.With(slog.String("adapter", "file_snapshot_store")),
	}, nil
}

// Load reads the collection for namespace.
func (f *SnapshotFile) Load(ctx context.Context, namespace string) (domain.Snapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, false, err
	}
	path, err := f.path(namespace)
	if err != nil {
		return domain.Snapshot{}, false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Snapshot{}, false, nil
		}
		return domain.Snapshot{}, false, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}

	f.logger.DebugContext(ctx, "snapshot loaded",
		slog.String("path", path),
		slog.Int("count", snap.Len()))
	return snap, true, nil
}

// Save replaces the collection for namespace.
func (f *SnapshotFile) Save(ctx context.Context, namespace string, snapshot domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := f.path(namespace)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, "."+namespace+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	f.logger.DebugContext(ctx, "snapshot saved",
		slog.String("path", path),
		slog.Int("count", snapshot.Len()))
	return nil
}

// Delete removes the file for namespace.
func (f *SnapshotFile) Delete(ctx context.Context, namespace string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := f.path(namespace)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	f.logger.DebugContext(ctx, "snapshot deleted", slog.String("path", path))
	return nil
}

func (f *SnapshotFile) path(namespace string) (string, error) {
	if namespace == "" || strings.ContainsAny(namespace, `/\`) || namespace == "." || namespace == ".." {
		return "", fmt.Errorf("invalid namespace %q", namespace)
	}
	return filepath.Join(f.dir, namespace+".json"), nil
}
