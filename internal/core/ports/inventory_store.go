// internal/core/ports/inventory_store.go
package ports

import (
	"context"
	"time"

	"github.com/ammerola/stockpile/internal/core/domain"
)

// InventoryStore is the authoritative collection of items. Mutations never
// fail; the boolean results report whether the target id existed.
type InventoryStore interface {
	Create(ctx context.Context, draft domain.Draft) (domain.Item, domain.Snapshot)
	Edit(ctx context.Context, item domain.Item) (domain.Snapshot, bool)
	Delete(ctx context.Context, id string) (domain.Snapshot, bool)
	AdjustStock(ctx context.Context, id string, delta int) (domain.Item, domain.Snapshot, bool)
	Snapshot() domain.Snapshot
	IsLoading() bool
	Status() StoreStatus
}

// StoreStatus describes the store's persistence state.
type StoreStatus struct {
	Loading       bool      `json:"loading"`
	Persistent    bool      `json:"persistent"`
	Degraded      bool      `json:"degraded"`
	Namespace     string    `json:"namespace"`
	ItemCount     int       `json:"item_count"`
	LastSavedAt   time.Time `json:"last_saved_at,omitzero"`
	LastSaveError string    `json:"last_save_error,omitempty"`
}

// Highlighter marks the most recently changed item for a short time.
type Highlighter interface {
	Highlight(id string)
	Current() (string, bool)
}
