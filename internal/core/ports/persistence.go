// internal/core/ports/persistence.go
package ports

import (
	"context"

	"github.com/ammerola/stockpile/internal/core/domain"
)

// SnapshotPersister stores the whole collection under a namespace key.
// Load reports found=false, with no error, when nothing has been saved yet.
type SnapshotPersister interface {
	Load(ctx context.Context, namespace string) (snapshot domain.Snapshot, found bool, err error)
	Save(ctx context.Context, namespace string, snapshot domain.Snapshot) error
}

// SnapshotDeleter is implemented by persisters that can drop a namespace.
// Deleting a namespace that was never saved is not an error.
type SnapshotDeleter interface {
	Delete(ctx context.Context, namespace string) error
}
