// internal/handlers/dashboard.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ammerola/stockpile/internal/core/domain"
	"github.com/ammerola/stockpile/internal/core/ports"
)

const (
	defaultAlertLimit = 10
	maxAlertLimit     = 50
)

// DashboardHandler handles dashboard operations
type DashboardHandler struct {
	responder
	store  ports.InventoryStore
	alerts ports.AlertLog
	logger *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler. alerts may be nil when
// background alert processing is disabled.
func NewDashboardHandler(store ports.InventoryStore, alerts ports.AlertLog, logger *slog.Logger) *DashboardHandler {
	l := logger.With(slog.String("handler", "dashboard"))
	return &DashboardHandler{
		responder: responder{logger: l},
		store:     store,
		alerts:    alerts,
		logger:    l,
	}
}

// DashboardResponse holds the aggregates shown on the dashboard
type DashboardResponse struct {
	TotalItems    int                      `json:"total_items"`
	TotalQuantity int                      `json:"total_quantity"`
	TotalValue    json.Number              `json:"total_value"`
	Categories    []domain.CategoryCount   `json:"categories"`
	StockLevels   []domain.StockLevelCount `json:"stock_levels"`
	RecentAlerts  []domain.StockAlert      `json:"recent_alerts,omitempty"`
	IsLoading     bool                     `json:"is_loading"`
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary := domain.Summarize(h.store.Snapshot())
	resp := DashboardResponse{
		TotalItems:    summary.TotalItems,
		TotalQuantity: summary.TotalQuantity,
		TotalValue:    json.Number(summary.TotalValue.StringFixed(2)),
		Categories:    summary.Categories,
		StockLevels:   summary.StockLevels,
		IsLoading:     h.store.IsLoading(),
	}

	if h.alerts != nil {
		alerts, err := h.alerts.Recent(ctx, alertLimit(r))
		if err != nil {
			// The aggregates are still useful without the alert feed
			h.logger.WarnContext(ctx, "failed to load recent stock alerts",
				slog.String("error", err.Error()))
		} else {
			resp.RecentAlerts = alerts
		}
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func alertLimit(r *http.Request) int {
	limit := defaultAlertLimit
	if v := r.URL.Query().Get("alerts"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = min(n, maxAlertLimit)
		}
	}
	return limit
}
