// cmd/worker/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/stockpile/internal/adapters/persistence"
	redis_a "github.com/ammerola/stockpile/internal/adapters/redis_adapter"
	"github.com/ammerola/stockpile/internal/pkg/config"
	"github.com/ammerola/stockpile/internal/pkg/logger"
	"github.com/ammerola/stockpile/internal/workers"
)

func main() {
	// Setup logger
	slogger := logger.SetupLogger(&logger.LogConfig{Level: "info", Format: "json", Output: "stdout"})

	// Load configuration
	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(&logger.LogConfig{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		Output:      "stdout",
		Environment: cfg.App.Environment,
		ServiceName: cfg.App.Name + "-worker",
	})
	slogger.Info("starting worker",
		slog.String("environment", cfg.App.Environment),
		slog.String("redis_addr", cfg.Asynq.RedisAddr),
		slog.String("namespace", cfg.Inventory.Namespace))

	ctx := context.Background()

	rdb, err := redis_a.NewClient(ctx, redis_a.ClientConfig{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	}, slogger)
	if err != nil {
		slogger.Error("failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer rdb.Close()

	// Reports read the same snapshot store the API writes
	backend, err := persistence.Open(ctx, cfg, rdb, slogger)
	if err != nil {
		slogger.Error("failed to initialize persistence", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer backend.Close()

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:     cfg.Asynq.Concurrency,
			Queues:          cfg.Asynq.Queues,
			StrictPriority:  cfg.Asynq.StrictPriority,
			ErrorHandler:    asynq.ErrorHandlerFunc(handleError),
			RetryDelayFunc:  exponentialBackoff,
			ShutdownTimeout: cfg.Asynq.ShutdownTimeout,
			HealthCheckFunc: healthCheck,
			Logger:          newAsynqLogger(slogger),
		},
	)

	mux := asynq.NewServeMux()

	alertLog := redis_a.NewAlertLog(rdb, redis_a.AlertLogKey(cfg.Redis.KeyPrefix, cfg.Inventory.Namespace), cfg.Asynq.AlertLogSize, slogger)
	alertProcessor := workers.NewStockAlertProcessor(alertLog, slogger)
	mux.HandleFunc(workers.TypeStockAlert, alertProcessor.ProcessStockAlert)

	var scheduler *asynq.Scheduler
	if backend.Persister != nil {
		reportProcessor := workers.NewReportProcessor(backend.Persister, cfg.Inventory.Namespace, slogger)
		mux.HandleFunc(workers.TypeInventoryReport, reportProcessor.GenerateReport)

		if cfg.Asynq.ReportSchedule != "" {
			scheduler, err = newReportScheduler(redisOpt, cfg, slogger)
			if err != nil {
				slogger.Error("failed to schedule inventory report", slog.String("error", err.Error()))
				os.Exit(1)
			}
		}
	} else {
		slogger.Warn("memory persistence has nothing to report on, inventory reports disabled")
	}

	// Handle shutdown gracefully
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Run(mux); err != nil {
			slogger.Error("failed to run worker server", slog.String("error", err.Error()))
			shutdown <- syscall.SIGTERM
		}
	}()

	if scheduler != nil {
		go func() {
			if err := scheduler.Run(); err != nil {
				slogger.Error("failed to run scheduler", slog.String("error", err.Error()))
				shutdown <- syscall.SIGTERM
			}
		}()
	}

	slogger.Info("worker started successfully",
		slog.Int("concurrency", cfg.Asynq.Concurrency),
		slog.Any("queues", cfg.Asynq.Queues))

	// Wait for shutdown signal
	sig := <-shutdown
	slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

	if scheduler != nil {
		scheduler.Shutdown()
	}
	srv.Shutdown()
	slogger.Info("worker shutdown complete")
}

func newReportScheduler(redisOpt asynq.RedisClientOpt, cfg *config.Config, logger *slog.Logger) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Logger:   newAsynqLogger(logger),
		Location: time.UTC,
	})

	task, err := workers.NewInventoryReportTask(cfg.Inventory.Namespace)
	if err != nil {
		return nil, err
	}

	entryID, err := scheduler.Register(cfg.Asynq.ReportSchedule, task,
		asynq.Queue("low"),
		asynq.MaxRetry(1),
		asynq.Timeout(time.Minute))
	if err != nil {
		return nil, fmt.Errorf("failed to register report schedule: %w", err)
	}

	logger.Info("inventory report scheduled",
		slog.String("entry_id", entryID),
		slog.String("schedule", cfg.Asynq.ReportSchedule))
	return scheduler, nil
}

func handleError(ctx context.Context, task *asynq.Task, err error) {
	slog.ErrorContext(ctx, "task processing failed",
		slog.String("type", task.Type()),
		slog.String("payload", string(task.Payload())),
		slog.String("error", err.Error()))
}

func exponentialBackoff(n int, e error, t *asynq.Task) time.Duration {
	baseDelay := time.Second
	maxDelay := 10 * time.Minute
	delay := baseDelay * time.Duration(1<<uint(n))
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

func healthCheck(err error) {
	if err != nil {
		slog.Error("worker health check failed", slog.String("error", err.Error()))
	}
}

// asynqLogger adapts slog for Asynq
type asynqLogger struct {
	logger *slog.Logger
}

func newAsynqLogger(logger *slog.Logger) *asynqLogger {
	return &asynqLogger{
		logger: logger.With(slog.String("component", "asynq")),
	}
}

func (l *asynqLogger) Debug(args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}

func (l *asynqLogger) Info(args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}

func (l *asynqLogger) Warn(args ...interface{}) {
	l.logger.Warn(fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
