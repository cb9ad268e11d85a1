package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/stockpile/internal/core/domain"
	"github.com/ammerola/stockpile/internal/core/services"
	"github.com/ammerola/stockpile/test/helpers"
	"github.com/ammerola/stockpile/test/mocks"
)

const testNamespace = "test-products"

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newMemoryStore(t *testing.T, opts ...services.StoreOption) *services.InventoryStore {
	t.Helper()
	opts = append([]services.StoreOption{services.WithIDGenerator(sequentialIDs())}, opts...)
	store := services.NewInventoryStore(testNamespace, helpers.TestLogger(), opts...)
	require.NoError(t, store.Hydrate(context.Background()))
	return store
}

func draft(name, category string, qty int, price string) domain.Draft {
	return domain.Draft{
		Name:     name,
		Category: category,
		Quantity: qty,
		Price:    decimal.RequireFromString(price),
	}
}

func TestInventoryStore_Create(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	first, snap := store.Create(ctx, draft("Apples", "Produce", 2, "3"))
	assert.Equal(t, "id-1", first.ID)
	assert.Equal(t, domain.PlaceholderImage, first.Image)
	assert.Equal(t, 1, snap.Len())

	second, snap := store.Create(ctx, draft("Apples", "Produce", 2, "3"))
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, []string{"id-1", "id-2"}, snap.IDs())
	assert.True(t, snap.Equal(store.Snapshot()))
}

func TestInventoryStore_CreateNormalizes(t *testing.T) {
	store := newMemoryStore(t)

	item, _ := store.Create(context.Background(), domain.Draft{
		Name:     "Broken",
		Quantity: -4,
		Price:    decimal.NewFromInt(-1),
		Image:    "",
	})
	assert.Equal(t, 0, item.Quantity)
	assert.True(t, item.Price.IsZero())
	assert.Equal(t, domain.PlaceholderImage, item.Image)
}

func TestInventoryStore_Edit(t *testing.T) {
	tests := []struct {
		name        string
		edit        func(domain.Item) domain.Item
		wantApplied bool
		wantName    string
	}{
		{
			name: "replaces_fields_in_place",
			edit: func(i domain.Item) domain.Item {
				i.Name = "Green Apples"
				i.Quantity = 7
				return i
			},
			wantApplied: true,
			wantName:    "Green Apples",
		},
		{
			name: "unknown_id_is_ignored",
			edit: func(i domain.Item) domain.Item {
				i.ID = "missing"
				i.Name = "Ghost"
				return i
			},
			wantApplied: false,
			wantName:    "Apples",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore(t)
			ctx := context.Background()
			apples, _ := store.Create(ctx, draft("Apples", "Produce", 2, "3"))
			store.Create(ctx, draft("Milk", "Dairy", 1, "5"))
			before := store.Snapshot()

			snap, applied := store.Edit(ctx, tt.edit(apples))

			assert.Equal(t, tt.wantApplied, applied)
			assert.Equal(t, before.IDs(), snap.IDs())
			got, ok := snap.Find(apples.ID)
			require.True(t, ok)
			assert.Equal(t, tt.wantName, got.Name)
			if !tt.wantApplied {
				assert.True(t, before.Equal(snap))
			}
		})
	}
}

func TestInventoryStore_Delete(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()
	a, _ := store.Create(ctx, draft("Apples", "Produce", 2, "3"))
	b, _ := store.Create(ctx, draft("Milk", "Dairy", 1, "5"))
	c, _ := store.Create(ctx, draft("Bananas", "Produce", 0, "1"))

	snap, ok := store.Delete(ctx, b.ID)
	assert.True(t, ok)
	assert.Equal(t, []string{a.ID, c.ID}, snap.IDs())

	snap, ok = store.Delete(ctx, b.ID)
	assert.False(t, ok)
	assert.Equal(t, []string{a.ID, c.ID}, snap.IDs())
}

func TestInventoryStore_EditMiddleItem(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()
	a, _ := store.Create(ctx, draft("Apples", "Produce", 2, "3"))
	b, _ := store.Create(ctx, draft("Milk", "Dairy", 1, "5"))
	c, _ := store.Create(ctx, draft("Bananas", "Produce", 0, "1"))

	edited := b
	edited.Name = "Oat Milk"
	edited.Quantity = 9
	edited.Price = decimal.RequireFromString("4.25")

	snap, applied := store.Edit(ctx, edited)
	require.True(t, applied)

	assert.Equal(t, 1, snap.IndexOf(b.ID))
	assert.True(t, snap.At(0).Equal(a))
	assert.True(t, snap.At(2).Equal(c))

	got := snap.At(1)
	assert.Equal(t, "Oat Milk", got.Name)
	assert.Equal(t, 9, got.Quantity)
	assert.True(t, decimal.RequireFromString("4.25").Equal(got.Price))
}

func TestInventoryStore_MutationsAfterDelete(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()
	a, _ := store.Create(ctx, draft("Apples", "Produce", 2, "3"))
	b, _ := store.Create(ctx, draft("Milk", "Dairy", 1, "5"))

	_, ok := store.Delete(ctx, b.ID)
	require.True(t, ok)
	afterDelete := store.Snapshot()

	edited := b
	edited.Name = "Ghost Milk"
	snap, applied := store.Edit(ctx, edited)
	assert.False(t, applied)
	assert.Equal(t, -1, snap.IndexOf(b.ID))
	assert.True(t, afterDelete.Equal(snap))

	_, snap, applied = store.AdjustStock(ctx, b.ID, 5)
	assert.False(t, applied)
	assert.Equal(t, -1, snap.IndexOf(b.ID))
	assert.Equal(t, []string{a.ID}, store.Snapshot().IDs())
}

func TestInventoryStore_AdjustStock(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		deltas  []int
		wantQty int
	}{
		{name: "increment", start: 2, deltas: []int{1}, wantQty: 3},
		{name: "decrement", start: 2, deltas: []int{-1}, wantQty: 1},
		{name: "floors_at_zero", start: 1, deltas: []int{-1, -1}, wantQty: 0},
		{name: "large_negative_delta", start: 5, deltas: []int{-100}, wantQty: 0},
		{name: "round_trip", start: 4, deltas: []int{1, -1}, wantQty: 4},
		{name: "overshoot_clamps", start: 5, deltas: []int{-9}, wantQty: 0},
		{name: "sequential_composition", start: 2, deltas: []int{3, -1}, wantQty: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore(t)
			ctx := context.Background()
			item, _ := store.Create(ctx, draft("Apples", "Produce", tt.start, "3"))

			var got domain.Item
			for _, d := range tt.deltas {
				var ok bool
				got, _, ok = store.AdjustStock(ctx, item.ID, d)
				require.True(t, ok)
			}
			assert.Equal(t, tt.wantQty, got.Quantity)

			stored, _ := store.Snapshot().Find(item.ID)
			assert.Equal(t, tt.wantQty, stored.Quantity)
			assert.Equal(t, item.Name, stored.Name)
			assert.True(t, item.Price.Equal(stored.Price))
		})
	}
}

func TestInventoryStore_AdjustStockUnknownID(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()
	store.Create(ctx, draft("Apples", "Produce", 2, "3"))
	before := store.Snapshot()

	_, snap, ok := store.AdjustStock(ctx, "missing", 1)
	assert.False(t, ok)
	assert.True(t, before.Equal(snap))
}

func TestInventoryStore_SnapshotsAreImmutable(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()
	item, _ := store.Create(ctx, draft("Apples", "Produce", 2, "3"))

	held := store.Snapshot()
	store.AdjustStock(ctx, item.ID, 5)
	store.Create(ctx, draft("Milk", "Dairy", 1, "5"))

	assert.Equal(t, 1, held.Len())
	assert.Equal(t, 2, held.At(0).Quantity)
	assert.Equal(t, 2, store.Snapshot().Len())
}

func TestInventoryStore_ConcurrentAdjustments(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()
	item, _ := store.Create(ctx, draft("Apples", "Produce", 0, "3"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.AdjustStock(ctx, item.ID, 1)
		}()
	}
	wg.Wait()

	got, _ := store.Snapshot().Find(item.ID)
	assert.Equal(t, 50, got.Quantity)
}

func TestInventoryStore_Hydrate(t *testing.T) {
	persisted := domain.NewSnapshot(
		domain.Item{ID: "a", Name: "Apples", Category: "Produce", Quantity: 2, Price: decimal.NewFromInt(3), Image: domain.PlaceholderImage},
		domain.Item{ID: "b", Name: "Milk", Category: "Dairy", Quantity: 1, Price: decimal.NewFromInt(5), Image: domain.PlaceholderImage},
	)

	t.Run("loads_persisted_collection", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		persister := mocks.NewMockSnapshotPersister(ctrl)
		persister.EXPECT().Load(gomock.Any(), testNamespace).Return(persisted, true, nil)

		store := services.NewInventoryStore(testNamespace, helpers.TestLogger(), services.WithPersister(persister))
		assert.True(t, store.IsLoading())

		require.NoError(t, store.Hydrate(context.Background()))
		assert.False(t, store.IsLoading())
		assert.True(t, persisted.Equal(store.Snapshot()))
		assert.True(t, store.Status().Persistent)
	})

	t.Run("missing_key_starts_empty", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		persister := mocks.NewMockSnapshotPersister(ctrl)
		persister.EXPECT().Load(gomock.Any(), testNamespace).Return(domain.Snapshot{}, false, nil)

		store := services.NewInventoryStore(testNamespace, helpers.TestLogger(), services.WithPersister(persister))
		require.NoError(t, store.Hydrate(context.Background()))
		assert.True(t, store.Snapshot().IsEmpty())
		assert.False(t, store.IsLoading())
	})

	t.Run("is_idempotent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		persister := mocks.NewMockSnapshotPersister(ctrl)
		persister.EXPECT().Load(gomock.Any(), testNamespace).Return(persisted, true, nil).Times(1)

		store := services.NewInventoryStore(testNamespace, helpers.TestLogger(), services.WithPersister(persister))
		require.NoError(t, store.Hydrate(context.Background()))
		require.NoError(t, store.Hydrate(context.Background()))
	})

	t.Run("load_failure_degrades_to_memory", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		persister := mocks.NewMockSnapshotPersister(ctrl)
		persister.EXPECT().Load(gomock.Any(), testNamespace).Return(domain.Snapshot{}, false, errors.New("connection refused"))
		persister.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		store := services.NewInventoryStore(testNamespace, helpers.TestLogger(),
			services.WithPersister(persister),
			services.WithIDGenerator(sequentialIDs()))
		err := store.Hydrate(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")

		assert.False(t, store.IsLoading())
		item, snap := store.Create(context.Background(), draft("Apples", "Produce", 1, "1"))
		assert.Equal(t, []string{item.ID}, snap.IDs())

		status := store.Status()
		assert.True(t, status.Degraded)
		assert.False(t, status.Persistent)
	})

	t.Run("merges_items_created_while_loading", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		persister := mocks.NewMockSnapshotPersister(ctrl)
		persister.EXPECT().Load(gomock.Any(), testNamespace).Return(persisted, true, nil)
		persister.EXPECT().
			Save(gomock.Any(), testNamespace, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, snap domain.Snapshot) error {
				assert.Equal(t, []string{"a", "b", "id-1"}, snap.IDs())
				return nil
			})

		store := services.NewInventoryStore(testNamespace, helpers.TestLogger(),
			services.WithPersister(persister),
			services.WithIDGenerator(sequentialIDs()))
		store.Create(context.Background(), draft("Bread", "Bakery", 1, "2"))

		require.NoError(t, store.Hydrate(context.Background()))
		assert.Equal(t, []string{"a", "b", "id-1"}, store.Snapshot().IDs())
	})
}

func TestInventoryStore_WritesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	persister := mocks.NewMockSnapshotPersister(ctrl)
	persister.EXPECT().Load(gomock.Any(), testNamespace).Return(domain.Snapshot{}, false, nil)

	var saved []domain.Snapshot
	persister.EXPECT().
		Save(gomock.Any(), testNamespace, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, snap domain.Snapshot) error {
			saved = append(saved, snap)
			return nil
		}).
		Times(4)

	store := newMemoryStore(t, services.WithPersister(persister))
	ctx := context.Background()

	item, _ := store.Create(ctx, draft("Apples", "Produce", 2, "3"))
	store.AdjustStock(ctx, item.ID, 1)
	item.Name = "Red Apples"
	store.Edit(ctx, item)
	store.Delete(ctx, item.ID)
	store.Delete(ctx, item.ID)

	require.Len(t, saved, 4)
	assert.Equal(t, 1, saved[0].Len())
	assert.Equal(t, 3, saved[1].At(0).Quantity)
	assert.Equal(t, "Red Apples", saved[2].At(0).Name)
	assert.True(t, saved[3].IsEmpty())
	assert.False(t, store.Status().LastSavedAt.IsZero())
}

func TestInventoryStore_SaveFailureKeepsMemoryState(t *testing.T) {
	ctrl := gomock.NewController(t)
	persister := mocks.NewMockSnapshotPersister(ctrl)
	persister.EXPECT().Load(gomock.Any(), testNamespace).Return(domain.Snapshot{}, false, nil)
	persister.EXPECT().Save(gomock.Any(), testNamespace, gomock.Any()).Return(errors.New("quota exceeded"))

	store := newMemoryStore(t, services.WithPersister(persister))
	item, snap := store.Create(context.Background(), draft("Apples", "Produce", 2, "3"))

	assert.Equal(t, []string{item.ID}, snap.IDs())
	assert.Equal(t, []string{item.ID}, store.Snapshot().IDs())
	assert.Equal(t, "quota exceeded", store.Status().LastSaveError)
}

func TestInventoryStore_SaveIgnoresCallerCancellation(t *testing.T) {
	ctrl := gomock.NewController(t)
	persister := mocks.NewMockSnapshotPersister(ctrl)
	persister.EXPECT().Load(gomock.Any(), testNamespace).Return(domain.Snapshot{}, false, nil)
	persister.EXPECT().
		Save(gomock.Any(), testNamespace, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ domain.Snapshot) error {
			return ctx.Err()
		})

	store := newMemoryStore(t, services.WithPersister(persister))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store.Create(ctx, draft("Apples", "Produce", 2, "3"))
	assert.Empty(t, store.Status().LastSaveError)
}

func TestInventoryStore_StockAlerts(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		start     int
		delta     int
		wantAlert bool
		status    domain.StockStatus
	}{
		{name: "drops_into_low_stock", start: 10, delta: -1, wantAlert: true, status: domain.StockLow},
		{name: "sells_out", start: 1, delta: -1, wantAlert: true, status: domain.StockOut},
		{name: "stays_in_stock", start: 30, delta: -1},
		{name: "restock_is_quiet", start: 0, delta: 20},
		{name: "low_to_lower_is_quiet", start: 5, delta: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			publisher := mocks.NewMockStockAlertPublisher(ctrl)

			store := newMemoryStore(t,
				services.WithAlertPublisher(publisher),
				services.WithClock(func() time.Time { return now }))
			item, _ := store.Create(context.Background(), draft("Apples", "Produce", tt.start, "3"))

			if tt.wantAlert {
				publisher.EXPECT().
					PublishStockAlert(gomock.Any(), domain.StockAlert{
						ItemID:           item.ID,
						Name:             "Apples",
						Category:         "Produce",
						PreviousQuantity: tt.start,
						Quantity:         tt.start + tt.delta,
						Status:           tt.status,
						OccurredAt:       now,
					}).
					Return(nil)
			}

			_, _, ok := store.AdjustStock(context.Background(), item.ID, tt.delta)
			assert.True(t, ok)
		})
	}
}

func TestInventoryStore_AlertFailureDoesNotUndoAdjustment(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockStockAlertPublisher(ctrl)
	publisher.EXPECT().PublishStockAlert(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	store := newMemoryStore(t, services.WithAlertPublisher(publisher))
	item, _ := store.Create(context.Background(), draft("Apples", "Produce", 1, "3"))

	got, _, ok := store.AdjustStock(context.Background(), item.ID, -1)
	assert.True(t, ok)
	assert.Equal(t, 0, got.Quantity)
}

func TestInventoryStore_MemoryOnlyStatus(t *testing.T) {
	store := newMemoryStore(t)

	status := store.Status()
	assert.False(t, status.Loading)
	assert.False(t, status.Persistent)
	assert.False(t, status.Degraded)
	assert.Equal(t, testNamespace, status.Namespace)
}

func TestNewInventoryStore_DefaultNamespace(t *testing.T) {
	store := services.NewInventoryStore("", helpers.TestLogger())
	assert.Equal(t, services.DefaultNamespace, store.Status().Namespace)
	assert.True(t, store.IsLoading())
}
