// internal/core/services/inventory.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/stockpile/internal/core/domain"
	"github.com/ammerola/stockpile/internal/core/ports"
)

// DefaultNamespace is the persistence key for the inventory collection.
const DefaultNamespace = "stockpile-products"

const defaultPersistTimeout = 5 * time.Second

// StoreOption configures an InventoryStore
type StoreOption func(*InventoryStore)

// WithPersister enables durable storage. Without one the store is memory only.
func WithPersister(p ports.SnapshotPersister) StoreOption {
	return func(s *InventoryStore) { s.persister = p }
}

// WithAlertPublisher sends stock alerts after adjustments.
func WithAlertPublisher(p ports.StockAlertPublisher) StoreOption {
	return func(s *InventoryStore) { s.alerts = p }
}

// WithIDGenerator overrides id minting.
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *InventoryStore) { s.newID = fn }
}

// WithClock overrides the time source used for alerts and save timestamps.
func WithClock(fn func() time.Time) StoreOption {
	return func(s *InventoryStore) { s.now = fn }
}

// WithPersistTimeout bounds each load and save.
func WithPersistTimeout(d time.Duration) StoreOption {
	return func(s *InventoryStore) {
		if d > 0 {
			s.persistTimeout = d
		}
	}
}

// InventoryStore owns the item collection. Every mutation runs under one
// lock, from reading the current snapshot through persisting the new one, so
// concurrent callers observe a total order. Readers never block.
type InventoryStore struct {
	namespace      string
	persister      ports.SnapshotPersister
	alerts         ports.StockAlertPublisher
	newID          func() string
	now            func() time.Time
	persistTimeout time.Duration
	logger         *slog.Logger

	current atomic.Pointer[domain.Snapshot]
	loading atomic.Bool

	mu          sync.Mutex
	hydrated    bool
	degraded    bool
	lastSavedAt time.Time
	lastSaveErr error
}

// Statically assert that *InventoryStore implements the InventoryStore interface.
var _ ports.InventoryStore = (*InventoryStore)(nil)

// NewInventoryStore creates an empty store. Call Hydrate before serving.
func NewInventoryStore(namespace string, logger *slog.Logger, opts ...StoreOption) *InventoryStore {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	s := &InventoryStore{
		namespace:      namespace,
		newID:          uuid.NewString,
		now:            time.Now,
		persistTimeout: defaultPersistTimeout,
		logger:         logger.With(slog.String("service", "inventory_store")),
	}
	for _, opt := range opts {
		opt(s)
	}
	empty := domain.Snapshot{}
	s.current.Store(&empty)
	s.loading.Store(true)
	return s
}

// Hydrate loads the persisted collection. A missing key starts the store
// empty. A read failure is logged and the store stays memory only for the
// rest of the session so the durable copy is never overwritten. Items created
// before hydration completes are kept after the loaded ones.
func (s *InventoryStore) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hydrated {
		return nil
	}
	defer func() {
		s.hydrated = true
		s.loading.Store(false)
	}()

	if s.persister == nil {
		s.logger.InfoContext(ctx, "no persister configured, inventory is memory only")
		return nil
	}

	loadCtx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	defer cancel()

	loaded, found, err := s.persister.Load(loadCtx, s.namespace)
	if err != nil {
		s.degraded = true
		s.logger.WarnContext(ctx, "failed to hydrate inventory, continuing in memory",
			slog.String("namespace", s.namespace),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to hydrate inventory: %w", err)
	}

	pending := s.snapshot()
	if !found {
		s.logger.InfoContext(ctx, "no persisted inventory found, starting empty",
			slog.String("namespace", s.namespace))
		if !pending.IsEmpty() {
			s.persist(ctx, pending)
		}
		return nil
	}

	merged := loaded.Normalized()
	for _, it := range pending.All() {
		if merged.IndexOf(it.ID) < 0 {
			merged = merged.Append(it)
		}
	}
	s.publish(merged)
	if pending.Len() > 0 {
		s.persist(ctx, merged)
	}

	s.logger.InfoContext(ctx, "inventory hydrated",
		slog.String("namespace", s.namespace),
		slog.Int("count", merged.Len()))
	return nil
}

// Create adds a new item with a freshly minted id.
func (s *InventoryStore) Create(ctx context.Context, draft domain.Draft) (domain.Item, domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := draft.WithID(s.newID())
	next := s.snapshot().Append(item)
	s.commit(ctx, next)

	s.logger.DebugContext(ctx, "item created",
		slog.String("item_id", item.ID),
		slog.String("name", item.Name))
	return item, next
}

// Edit replaces the mutable fields of the item with a matching id. Unknown
// ids leave the collection untouched.
func (s *InventoryStore) Edit(ctx context.Context, item domain.Item) (domain.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.snapshot().Replace(item.Normalize())
	if !ok {
		s.logger.DebugContext(ctx, "edit ignored, item not found",
			slog.String("item_id", item.ID))
		return next, false
	}
	s.commit(ctx, next)
	return next, true
}

// Delete removes the item with id if present.
func (s *InventoryStore) Delete(ctx context.Context, id string) (domain.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.snapshot().Remove(id)
	if !ok {
		s.logger.DebugContext(ctx, "delete ignored, item not found",
			slog.String("item_id", id))
		return next, false
	}
	s.commit(ctx, next)
	return next, true
}

// AdjustStock adds delta to the item's quantity, flooring at zero.
func (s *InventoryStore) AdjustStock(ctx context.Context, id string, delta int) (domain.Item, domain.Snapshot, bool) {
	item, next, alert, ok := s.adjust(ctx, id, delta)
	if alert != nil {
		s.publishAlert(ctx, *alert)
	}
	return item, next, ok
}

func (s *InventoryStore) adjust(ctx context.Context, id string, delta int) (domain.Item, domain.Snapshot, *domain.StockAlert, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.snapshot()
	before, ok := current.Find(id)
	if !ok {
		s.logger.DebugContext(ctx, "stock adjustment ignored, item not found",
			slog.String("item_id", id))
		return domain.Item{}, current, nil, false
	}

	after := before
	after.Quantity = domain.ClampQuantity(before.Quantity, delta)
	next, _ := current.Replace(after)
	s.commit(ctx, next)

	s.logger.DebugContext(ctx, "stock adjusted",
		slog.String("item_id", id),
		slog.Int("delta", delta),
		slog.Int("quantity", after.Quantity))

	if s.alerts == nil {
		return after, next, nil, true
	}
	if alert, raised := domain.DetectStockAlert(before, after, s.now()); raised {
		return after, next, &alert, true
	}
	return after, next, nil, true
}

// Snapshot returns the current collection.
func (s *InventoryStore) Snapshot() domain.Snapshot {
	return s.snapshot()
}

// IsLoading reports whether hydration is still pending.
func (s *InventoryStore) IsLoading() bool {
	return s.loading.Load()
}

// Status reports the persistence state.
func (s *InventoryStore) Status() ports.StoreStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := ports.StoreStatus{
		Loading:     s.loading.Load(),
		Persistent:  s.persister != nil && !s.degraded,
		Degraded:    s.degraded,
		Namespace:   s.namespace,
		ItemCount:   s.snapshot().Len(),
		LastSavedAt: s.lastSavedAt,
	}
	if s.lastSaveErr != nil {
		st.LastSaveError = s.lastSaveErr.Error()
	}
	return st
}

func (s *InventoryStore) snapshot() domain.Snapshot {
	return *s.current.Load()
}

func (s *InventoryStore) publish(next domain.Snapshot) {
	s.current.Store(&next)
}

// commit publishes next and writes it through. Callers hold mu.
func (s *InventoryStore) commit(ctx context.Context, next domain.Snapshot) {
	s.publish(next)
	if s.hydrated {
		s.persist(ctx, next)
	}
}

// persist saves the snapshot. Failures are logged and kept for Status; the
// in-memory state is authoritative either way. Callers hold mu.
func (s *InventoryStore) persist(ctx context.Context, snap domain.Snapshot) {
	if s.persister == nil || s.degraded {
		return
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout)
	defer cancel()

	if err := s.persister.Save(saveCtx, s.namespace, snap); err != nil {
		s.lastSaveErr = err
		s.logger.WarnContext(ctx, "failed to persist inventory",
			slog.String("namespace", s.namespace),
			slog.Int("count", snap.Len()),
			slog.String("error", err.Error()))
		return
	}
	s.lastSaveErr = nil
	s.lastSavedAt = s.now()
}

func (s *InventoryStore) publishAlert(ctx context.Context, alert domain.StockAlert) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout)
	defer cancel()

	if err := s.alerts.PublishStockAlert(pubCtx, alert); err != nil {
		s.logger.WarnContext(ctx, "failed to publish stock alert",
			slog.String("item_id", alert.ItemID),
			slog.String("status", string(alert.Status)),
			slog.String("error", err.Error()))
	}
}
