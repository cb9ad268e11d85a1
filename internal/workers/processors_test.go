package workers_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/stockpile/internal/core/domain"
	"github.com/ammerola/stockpile/internal/workers"
	"github.com/ammerola/stockpile/test/helpers"
	"github.com/ammerola/stockpile/test/mocks"
)

func TestStockAlertProcessor_ProcessStockAlert(t *testing.T) {
	alert := domain.StockAlert{
		ItemID:           "item-1",
		Name:             "Milk",
		Category:         "Dairy",
		PreviousQuantity: 12,
		Quantity:         0,
		Status:           domain.StockOut,
		OccurredAt:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	validTask, err := workers.NewStockAlertTask(alert)
	require.NoError(t, err)

	tests := []struct {
		name       string
		task       *asynq.Task
		setupMocks func(*mocks.MockAlertLog)
		skipRetry  bool
		wantErr    string
	}{
		{
			name: "records_alert",
			task: validTask,
			setupMocks: func(log *mocks.MockAlertLog) {
				log.EXPECT().Record(gomock.Any(), alert).Return(nil)
			},
		},
		{
			name:      "corrupt_payload_skips_retry",
			task:      asynq.NewTask(workers.TypeStockAlert, []byte("{")),
			skipRetry: true,
			wantErr:   "failed to unmarshal payload",
		},
		{
			name:      "missing_item_id_skips_retry",
			task:      asynq.NewTask(workers.TypeStockAlert, []byte(`{"name":"Milk"}`)),
			skipRetry: true,
			wantErr:   "without item id",
		},
		{
			name: "log_failure_is_retried",
			task: validTask,
			setupMocks: func(log *mocks.MockAlertLog) {
				log.EXPECT().Record(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
			},
			wantErr: "failed to record stock alert",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			alertLog := mocks.NewMockAlertLog(ctrl)
			if tt.setupMocks != nil {
				tt.setupMocks(alertLog)
			}

			processor := workers.NewStockAlertProcessor(alertLog, helpers.TestLogger())
			err := processor.ProcessStockAlert(context.Background(), tt.task)

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, tt.skipRetry, errors.Is(err, asynq.SkipRetry))
		})
	}
}

func TestReportProcessor_GenerateReport(t *testing.T) {
	snap := domain.NewSnapshot(
		domain.Item{ID: "a", Name: "Apples", Category: "Produce", Quantity: 2, Price: decimal.NewFromInt(3), Image: domain.PlaceholderImage},
		domain.Item{ID: "b", Name: "Milk", Category: "Dairy", Quantity: 1, Price: decimal.NewFromInt(5), Image: domain.PlaceholderImage},
	)

	t.Run("uses_payload_namespace", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		persister := mocks.NewMockSnapshotPersister(ctrl)
		persister.EXPECT().Load(gomock.Any(), "other").Return(snap, true, nil)

		task, err := workers.NewInventoryReportTask("other")
		require.NoError(t, err)

		processor := workers.NewReportProcessor(persister, "test-products", helpers.TestLogger())
		assert.NoError(t, processor.GenerateReport(context.Background(), task))
	})

	t.Run("empty_payload_falls_back_to_default_namespace", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		persister := mocks.NewMockSnapshotPersister(ctrl)
		persister.EXPECT().Load(gomock.Any(), "test-products").Return(domain.Snapshot{}, false, nil)

		processor := workers.NewReportProcessor(persister, "test-products", helpers.TestLogger())
		assert.NoError(t, processor.GenerateReport(context.Background(), asynq.NewTask(workers.TypeInventoryReport, nil)))
	})

	t.Run("load_failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		persister := mocks.NewMockSnapshotPersister(ctrl)
		persister.EXPECT().Load(gomock.Any(), "test-products").Return(domain.Snapshot{}, false, errors.New("timeout"))

		processor := workers.NewReportProcessor(persister, "test-products", helpers.TestLogger())
		err := processor.GenerateReport(context.Background(), asynq.NewTask(workers.TypeInventoryReport, nil))
		assert.ErrorContains(t, err, "failed to load snapshot")
	})
}
