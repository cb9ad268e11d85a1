// cmd/seeder/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/ammerola/stockpile/internal/adapters/persistence"
	redis_a "github.com/ammerola/stockpile/internal/adapters/redis_adapter"
	"github.com/ammerola/stockpile/internal/core/domain"
	"github.com/ammerola/stockpile/internal/core/ports"
	"github.com/ammerola/stockpile/internal/core/services"
	"github.com/ammerola/stockpile/internal/importer"
	"github.com/ammerola/stockpile/internal/pkg/config"
	"github.com/ammerola/stockpile/internal/pkg/logger"
)

// starterInventory is seeded when no workbook is given
var starterInventory = []domain.Draft{
	{Name: "Organic Fuji Apples", Category: "Produce", Quantity: 120, Price: decimal.RequireFromString("1.29")},
	{Name: "Bananas", Category: "Produce", Quantity: 8, Price: decimal.RequireFromString("0.25")},
	{Name: "Whole Milk 1 Gallon", Category: "Dairy", Quantity: 24, Price: decimal.RequireFromString("3.49")},
	{Name: "Sharp Cheddar Cheese", Category: "Dairy", Quantity: 0, Price: decimal.RequireFromString("5.99")},
	{Name: "Sourdough Bread Loaf", Category: "Bakery", Quantity: 15, Price: decimal.RequireFromString("4.50")},
	{Name: "Free Range Chicken Breast", Category: "Meat & Seafood", Quantity: 6, Price: decimal.RequireFromString("8.99")},
	{Name: "Sparkling Water 12 Pack", Category: "Beverages", Quantity: 60, Price: decimal.RequireFromString("5.49")},
	{Name: "Basmati Rice 5lb", Category: "Pantry", Quantity: 35, Price: decimal.RequireFromString("7.25")},
	{Name: "Vanilla Ice Cream", Category: "Frozen", Quantity: 3, Price: decimal.RequireFromString("4.99")},
	{Name: "Laundry Detergent", Category: "Household", Quantity: 52, Price: decimal.RequireFromString("11.99")},
}

func main() {
	var (
		workbookPath = flag.String("file", "", "Excel workbook to import (defaults to the built-in starter set)")
		namespace    = flag.String("namespace", "", "Inventory namespace (defaults to INVENTORY_NAMESPACE)")
		reset        = flag.Bool("reset", false, "Delete the persisted inventory before seeding instead of appending to it")
		dryRun       = flag.Bool("dry-run", false, "Preview the rows without writing them")
		logLevel     = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	)
	flag.Parse()

	slogger := logger.SetupLogger(&logger.LogConfig{Level: *logLevel, Format: "text", Output: "stdout"})

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *namespace != "" {
		cfg.Inventory.Namespace = *namespace
	}

	drafts, skipped, err := loadDrafts(*workbookPath)
	if err != nil {
		slogger.Error("failed to read seed data", slog.String("error", err.Error()))
		os.Exit(1)
	}
	for _, row := range skipped {
		slogger.Warn("skipping row", slog.Int("row", row.Row), slog.String("reason", row.Reason))
	}

	if *dryRun {
		for _, d := range drafts {
			fmt.Printf("%-32s %-16s %6d %10s\n", d.Name, d.Category, d.Quantity, d.Price.StringFixed(2))
		}
		fmt.Printf("\n[DRY RUN] %d items would be seeded into %q\n", len(drafts), cfg.Inventory.Namespace)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	created, err := seed(ctx, cfg, drafts, *reset, slogger)
	if err != nil {
		slogger.Error("seed operation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Namespace:     %s\n", cfg.Inventory.Namespace)
	fmt.Printf("Driver:        %s\n", cfg.Inventory.PersistenceDriver)
	fmt.Printf("Items created: %d\n", created)
	fmt.Printf("Rows skipped:  %d\n", len(skipped))
	fmt.Println(strings.Repeat("=", 60))

	slogger.Info("seed operation completed",
		slog.String("namespace", cfg.Inventory.Namespace),
		slog.Int("items_created", created),
		slog.Int("rows_skipped", len(skipped)))
}

func loadDrafts(path string) ([]domain.Draft, []importer.RowError, error) {
	if path == "" {
		return starterInventory, nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	result, err := importer.ParseReader(f)
	if err != nil {
		return nil, nil, err
	}
	return result.Drafts, result.Skipped, nil
}

func seed(ctx context.Context, cfg *config.Config, drafts []domain.Draft, reset bool, logger *slog.Logger) (int, error) {
	var rdb *redis.Client
	if cfg.Inventory.PersistenceDriver == config.DriverRedis {
		client, err := redis_a.NewClient(ctx, redis_a.ClientConfig{
			Addr:        cfg.GetRedisAddr(),
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
		}, logger)
		if err != nil {
			return 0, err
		}
		defer client.Close()
		rdb = client
	}

	backend, err := persistence.Open(ctx, cfg, rdb, logger)
	if err != nil {
		return 0, err
	}
	defer backend.Close()

	if backend.Persister == nil {
		return 0, fmt.Errorf("driver %q does not persist, nothing to seed", backend.Driver)
	}

	if reset {
		if err := resetNamespace(ctx, backend.Persister, cfg.Inventory.Namespace); err != nil {
			return 0, err
		}
		logger.Info("inventory reset", slog.String("namespace", cfg.Inventory.Namespace))
	}

	store := services.NewInventoryStore(cfg.Inventory.Namespace, logger,
		services.WithPersister(backend.Persister),
		services.WithPersistTimeout(cfg.Inventory.PersistTimeout))
	if err := store.Hydrate(ctx); err != nil {
		return 0, err
	}

	for _, d := range drafts {
		store.Create(ctx, d)
	}

	if st := store.Status(); st.LastSaveError != "" {
		return 0, fmt.Errorf("failed to persist seeded inventory: %s", st.LastSaveError)
	}
	return len(drafts), nil
}

// resetNamespace drops the namespace when the backend supports it and
// otherwise overwrites it with an empty collection.
func resetNamespace(ctx context.Context, persister ports.SnapshotPersister, namespace string) error {
	if deleter, ok := persister.(ports.SnapshotDeleter); ok {
		if err := deleter.Delete(ctx, namespace); err != nil {
			return fmt.Errorf("failed to reset inventory: %w", err)
		}
		return nil
	}
	if err := persister.Save(ctx, namespace, domain.NewSnapshot()); err != nil {
		return fmt.Errorf("failed to reset inventory: %w", err)
	}
	return nil
}
