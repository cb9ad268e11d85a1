// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/stockpile/internal/adapters/persistence"
	"github.com/ammerola/stockpile/internal/adapters/queue"
	redis_a "github.com/ammerola/stockpile/internal/adapters/redis_adapter"
	"github.com/ammerola/stockpile/internal/adapters/suggest"
	"github.com/ammerola/stockpile/internal/core/ports"
	"github.com/ammerola/stockpile/internal/core/services"
	"github.com/ammerola/stockpile/internal/handlers"
	"github.com/ammerola/stockpile/internal/handlers/middleware"
	"github.com/ammerola/stockpile/internal/pkg/config"
	"github.com/ammerola/stockpile/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	// Initialize structured logger
	slogger := logger.SetupLogger(&logger.LogConfig{Level: "debug", Format: "json", Output: "stdout"})

	slogger.Info("starting stockpile inventory api",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	// Load configuration
	slogger.Info("loading configuration")
	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(&logger.LogConfig{
		Level:          cfg.App.LogLevel,
		Format:         cfg.App.LogFormat,
		Output:         "stdout",
		Environment:    cfg.App.Environment,
		ServiceName:    cfg.App.Name,
		ServiceVersion: Version,
	})
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
		slog.String("persistence", cfg.Inventory.PersistenceDriver),
	)

	// Cancelled on shutdown; stops highlight timers and the rate limiter sweep
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if err := loadSecrets(ctx, cfg, slogger); err != nil {
		slogger.Error("failed to load secrets", slog.String("error", err.Error()))
		os.Exit(1)
	}

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	server := setupHTTPServer(ctx, cfg, deps, slogger)

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server", slog.String("address", cfg.GetServerAddress()))
		serverErrors <- server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	backend        *persistence.Backend
	redisClient    *redis.Client
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector
	store          *services.InventoryStore
	highlights     *services.HighlightTracker
	handlers       handlers.Handlers
}

func (d *dependencies) cleanup() {
	if d.highlights != nil {
		d.highlights.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
	if d.asynqInspector != nil {
		d.asynqInspector.Close()
	}
	if d.backend != nil {
		d.backend.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
}

func loadSecrets(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	var sm config.SecretsManager = config.NewEnvSecretsManager()
	if cfg.AWS.SecretName != "" {
		aws, err := config.NewAWSSecretsManager(ctx, cfg.AWS.Region, cfg.AWS.SecretName, logger)
		if err != nil {
			return err
		}
		sm = aws
	}
	return config.ApplySecrets(ctx, cfg, sm)
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	if cfg.UsesRedis() {
		logger.Info("connecting to Redis",
			slog.String("host", cfg.Redis.Host),
			slog.String("port", cfg.Redis.Port),
		)
		rdb, err := redis_a.NewClient(ctx, redis_a.ClientConfig{
			Addr:         cfg.GetRedisAddr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		}, logger)
		if err != nil {
			deps.cleanup()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		deps.redisClient = rdb
	}

	backend, err := persistence.Open(ctx, cfg, deps.redisClient, logger)
	if err != nil {
		deps.cleanup()
		return nil, err
	}
	deps.backend = backend

	opts := []services.StoreOption{services.WithPersistTimeout(cfg.Inventory.PersistTimeout)}
	if backend.Persister != nil {
		opts = append(opts, services.WithPersister(backend.Persister))
	}

	if cfg.Asynq.Enabled {
		logger.Info("initializing Asynq client")
		asynqRedisOpt := asynq.RedisClientOpt{
			Addr:     cfg.Asynq.RedisAddr,
			Password: cfg.Asynq.RedisPassword,
			DB:       cfg.Asynq.RedisDB,
		}
		deps.asynqClient = asynq.NewClient(asynqRedisOpt)
		deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

		publisher := queue.NewAlertPublisher(deps.asynqClient, cfg.Asynq.AlertQueue, cfg.Asynq.RetryMax, logger)
		opts = append(opts, services.WithAlertPublisher(publisher))
	}

	deps.store = services.NewInventoryStore(cfg.Inventory.Namespace, logger, opts...)
	if err := deps.store.Hydrate(ctx); err != nil {
		// The store keeps serving from memory; /health reports it as degraded
		logger.Error("inventory hydration failed", slog.String("error", err.Error()))
	}

	deps.highlights = services.NewHighlightTracker(ctx, cfg.Inventory.HighlightTimeout, logger)

	var suggester ports.CategorySuggester = suggest.NewKeywordSuggester()
	if cfg.Suggest.Provider == config.SuggestHTTP {
		suggester = suggest.NewHTTPSuggester(suggest.HTTPConfig{
			URL:       cfg.Suggest.URL,
			APIKey:    cfg.Suggest.APIKey,
			Timeout:   cfg.Suggest.Timeout,
			RateLimit: cfg.Suggest.RateLimit,
			Burst:     cfg.Suggest.Burst,
		}, nil, logger)
	}
	categories := services.NewCategoryService(suggester, cfg.Suggest.Timeout, logger)

	// Optional dependencies stay untyped nil when absent
	var alerts ports.AlertLog
	var redisPinger handlers.RedisPinger
	if deps.redisClient != nil {
		redisPinger = deps.redisClient
		if cfg.Asynq.Enabled {
			alerts = redis_a.NewAlertLog(deps.redisClient, redis_a.AlertLogKey(cfg.Redis.KeyPrefix, cfg.Inventory.Namespace), cfg.Asynq.AlertLogSize, logger)
		}
	}
	var database ports.Database
	if backend.Database != nil {
		database = backend.Database
	}
	var inspector handlers.QueueInspector
	if deps.asynqInspector != nil {
		inspector = deps.asynqInspector
	}

	validator := handlers.NewRequestValidator()
	deps.handlers = handlers.Handlers{
		Inventory: handlers.NewInventoryHandler(deps.store, deps.highlights, validator, logger),
		Dashboard: handlers.NewDashboardHandler(deps.store, alerts, logger),
		Category:  handlers.NewCategoryHandler(categories, validator, logger),
		Export:    handlers.NewExportHandler(deps.store, logger),
		Import:    handlers.NewImportHandler(deps.store, int64(cfg.Import.MaxUploadMB)<<20, logger),
		Health:    handlers.NewHealthHandler(deps.store, database, redisPinger, inspector, cfg.App, logger),
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(ctx context.Context, cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	handlers.Register(mux, deps.handlers)

	// Outermost first
	mws := []middleware.Middleware{
		middleware.Recovery(logger),
		middleware.RequestID(cfg.Security.RequestIDHeader),
		middleware.Logger(logger),
	}
	if cfg.Security.RateLimitRequests > 0 {
		mws = append(mws, middleware.RateLimit(ctx, cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration))
	}
	if len(cfg.Security.AllowedOrigins) > 0 {
		mws = append(mws, middleware.CORS(cfg.Security.AllowedOrigins))
	}
	if cfg.Security.SecureHeaders {
		mws = append(mws, middleware.SecureHeaders)
	}
	mws = append(mws, middleware.Compression)

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        middleware.Chain(mux, mws...),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}
