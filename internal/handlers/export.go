// internal/handlers/export.go
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ammerola/stockpile/internal/core/domain"
	"github.com/ammerola/stockpile/internal/core/ports"
	"github.com/ammerola/stockpile/internal/importer"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// JSONExportResponse represents the JSON export response structure
type JSONExportResponse struct {
	Inventory []ItemResponse `json:"inventory"`
	Metadata  ExportMetadata `json:"metadata"`
}

// ExportMetadata contains metadata about the export
type ExportMetadata struct {
	ExportDate time.Time `json:"export_date"`
	TotalItems int       `json:"total_items"`
	TotalValue string    `json:"total_value"`
	Search     string    `json:"search,omitempty"`
}

// ExportHandler handles export operations
type ExportHandler struct {
	responder
	store  ports.InventoryStore
	now    func() time.Time
	logger *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(store ports.InventoryStore, logger *slog.Logger) *ExportHandler {
	l := logger.With(slog.String("handler", "export"))
	return &ExportHandler{
		responder: responder{logger: l},
		store:     store,
		now:       time.Now,
		logger:    l,
	}
}

// ExportExcel handles GET /api/v1/export/excel
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	snap := h.exportSnapshot(r)

	data, err := importer.EncodeWorkbook(snap)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate Excel file", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("inventory_export_%s.xlsx", h.now().Format("20060102_150405"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(data); err != nil {
		h.logger.ErrorContext(ctx, "failed to write Excel response", slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "Excel export completed",
		slog.Int("total_rows", snap.Len()),
		slog.String("filename", filename))
}

// ExportJSON handles GET /api/v1/export/json
func (h *ExportHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	snap := h.exportSnapshot(r)
	now := h.now()

	resp := JSONExportResponse{
		Inventory: NewItemResponses(snap),
		Metadata: ExportMetadata{
			ExportDate: now.UTC(),
			TotalItems: snap.Len(),
			TotalValue: domain.TotalValue(snap).StringFixed(2),
			Search:     searchParam(r),
		},
	}

	body, err := json.Marshal(resp)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to marshal JSON export", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate JSON")
		return
	}

	filename := fmt.Sprintf("inventory_export_%s.json", now.Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))

	if _, err := w.Write(body); err != nil {
		h.logger.ErrorContext(ctx, "failed to write JSON export", slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "JSON export completed", slog.Int("total_rows", snap.Len()))
}

func (h *ExportHandler) exportSnapshot(r *http.Request) domain.Snapshot {
	return domain.Filter(h.store.Snapshot(), searchParam(r))
}

func searchParam(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("search"))
}
