// internal/adapters/persistence/open.go
package persistence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/ammerola/stockpile/internal/adapters/db"
	"github.com/ammerola/stockpile/internal/adapters/filestore"
	redis_a "github.com/ammerola/stockpile/internal/adapters/redis_adapter"
	"github.com/ammerola/stockpile/internal/adapters/storage"
	"github.com/ammerola/stockpile/internal/core/ports"
	"github.com/ammerola/stockpile/internal/pkg/config"
)

// Backend is the snapshot persister selected by configuration, along with
// the connections it owns.
type Backend struct {
	Driver    string
	Persister ports.SnapshotPersister // nil for the memory driver
	Database  *db.Database            // postgres driver only

	closers []func()
}

// Close releases every connection opened by Open.
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

// Open builds the persister for cfg.Inventory.PersistenceDriver. rdb is only
// used by the redis driver and may be nil otherwise.
func Open(ctx context.Context, cfg *config.Config, rdb *redis.Client, logger *slog.Logger) (*Backend, error) {
	b := &Backend{Driver: cfg.Inventory.PersistenceDriver}

	switch b.Driver {
	case "", config.DriverMemory:
		b.Driver = config.DriverMemory
		logger.Warn("inventory persistence disabled, changes are lost on restart")

	case config.DriverRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis driver requires a redis client")
		}
		b.Persister = redis_a.NewSnapshotStore(rdb, cfg.Redis.KeyPrefix, logger)

	case config.DriverPostgres:
		database, err := openDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		b.Database = database
		b.closers = append(b.closers, database.Close)
		b.Persister = db.NewSnapshotRepository(database.SQL(), logger)

	case config.DriverS3:
		store, err := storage.NewS3SnapshotStore(ctx, &storage.S3Config{
			Region:          cfg.AWS.Region,
			Bucket:          cfg.AWS.S3Bucket,
			Prefix:          cfg.AWS.S3Prefix,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			Endpoint:        cfg.AWS.S3Endpoint,
			UsePathStyle:    cfg.AWS.UsePathStyle,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize s3 snapshot store: %w", err)
		}
		b.Persister = store

	case config.DriverFile:
		file, err := filestore.NewSnapshotFile(cfg.Inventory.DataDir, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize snapshot file: %w", err)
		}
		b.Persister = file

	default:
		return nil, fmt.Errorf("unknown persistence driver %q", b.Driver)
	}

	logger.Info("inventory persistence configured",
		slog.String("driver", b.Driver),
		slog.String("namespace", cfg.Inventory.Namespace))
	return b, nil
}

func openDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*db.Database, error) {
	logger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)

	dbConfig := &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}

	database, err := db.NewDatabase(ctx, dbConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.Database.RunMigrations {
		logger.Info("running database migrations")
		err := db.RunMigrationsWithRetry(ctx, &db.MigrationConfig{
			DatabaseURL: dbConfig.URL(),
			TableName:   "schema_migrations",
			SchemaName:  "public",
		}, logger, 3)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return database, nil
}
