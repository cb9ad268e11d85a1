// internal/handlers/import.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ammerola/stockpile/internal/core/ports"
	"github.com/ammerola/stockpile/internal/importer"
)

const defaultMaxUploadBytes = 10 << 20

// ImportHandler handles import operations
type ImportHandler struct {
	responder
	store       ports.InventoryStore
	maxFileSize int64
	logger      *slog.Logger
}

// NewImportHandler creates a new import handler. maxFileSize is in bytes.
func NewImportHandler(store ports.InventoryStore, maxFileSize int64, logger *slog.Logger) *ImportHandler {
	if maxFileSize <= 0 {
		maxFileSize = defaultMaxUploadBytes
	}
	l := logger.With(slog.String("handler", "import"))
	return &ImportHandler{
		responder:   responder{logger: l},
		store:       store,
		maxFileSize: maxFileSize,
		logger:      l,
	}
}

// ImportResponse reports what an upload added
type ImportResponse struct {
	Created int                 `json:"created"`
	Skipped []importer.RowError `json:"skipped"`
	Items   []ItemResponse      `json:"items"`
}

// ImportExcel handles POST /api/v1/import/excel
func (h *ImportHandler) ImportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondError(w, http.StatusRequestEntityTooLarge, "File is too large")
			return
		}
		h.respondError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		h.respondError(w, http.StatusBadRequest, "Only .xlsx files are allowed")
		return
	}

	result, err := importer.ParseReader(file)
	if err != nil {
		h.logger.WarnContext(ctx, "rejected workbook",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()))
		if errors.Is(err, importer.ErrNoNameColumn) {
			h.respondError(w, http.StatusUnprocessableEntity, "Workbook has no Name column")
			return
		}
		h.respondError(w, http.StatusBadRequest, "Could not read workbook")
		return
	}

	for _, draft := range result.Drafts {
		h.store.Create(ctx, draft)
	}

	skipped := result.Skipped
	if skipped == nil {
		skipped = []importer.RowError{}
	}

	h.logger.InfoContext(ctx, "Excel import completed",
		slog.String("filename", header.Filename),
		slog.Int("created", len(result.Drafts)),
		slog.Int("skipped", len(skipped)))

	h.respondJSON(w, http.StatusOK, ImportResponse{
		Created: len(result.Drafts),
		Skipped: skipped,
		Items:   NewItemResponses(h.store.Snapshot()),
	})
}
