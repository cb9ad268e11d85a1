// internal/handlers/inventory.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ammerola/stockpile/internal/core/domain"
	"github.com/ammerola/stockpile/internal/core/ports"
)

// InventoryHandler handles inventory-related HTTP requests
type InventoryHandler struct {
	responder
	store       ports.InventoryStore
	highlighter ports.Highlighter
	validator   *RequestValidator
	logger      *slog.Logger
}

// NewInventoryHandler creates a new inventory handler. highlighter may be nil.
func NewInventoryHandler(store ports.InventoryStore, highlighter ports.Highlighter, validator *RequestValidator, logger *slog.Logger) *InventoryHandler {
	if validator == nil {
		validator = NewRequestValidator()
	}
	l := logger.With(slog.String("handler", "inventory"))
	return &InventoryHandler{
		responder:   responder{logger: l},
		store:       store,
		highlighter: highlighter,
		validator:   validator,
		logger:      l,
	}
}

// ItemResponse is an item as returned by the API, with derived fields.
type ItemResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Category    string             `json:"category"`
	Quantity    int                `json:"quantity"`
	Price       json.Number        `json:"price"`
	Image       string             `json:"image"`
	Value       json.Number        `json:"value"`
	StockStatus domain.StockStatus `json:"stock_status"`
	StockLabel  string             `json:"stock_label"`
}

// NewItemResponse converts a domain item.
func NewItemResponse(item domain.Item) ItemResponse {
	status := item.StockStatus()
	return ItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Category:    item.Category,
		Quantity:    item.Quantity,
		Price:       json.Number(item.Price.String()),
		Image:       item.Image,
		Value:       json.Number(item.Value().String()),
		StockStatus: status,
		StockLabel:  status.Label(),
	}
}

// NewItemResponses converts every item of a snapshot, keeping order.
func NewItemResponses(snap domain.Snapshot) []ItemResponse {
	out := make([]ItemResponse, 0, snap.Len())
	for _, item := range snap.All() {
		out = append(out, NewItemResponse(item))
	}
	return out
}

// ListResponse is the body of GET /items.
type ListResponse struct {
	Items           []ItemResponse `json:"items"`
	TotalCount      int            `json:"total_count"`
	IsLoading       bool           `json:"is_loading"`
	RecentlyUpdated *string        `json:"recently_updated"`
}

// CreateResponse is the body of POST /items.
type CreateResponse struct {
	Item  ItemResponse   `json:"item"`
	Items []ItemResponse `json:"items"`
}

// MutationResponse is the body of PUT and DELETE /items/{id}.
type MutationResponse struct {
	Applied bool           `json:"applied"`
	Items   []ItemResponse `json:"items"`
}

// StockResponse is the body of POST /items/{id}/stock. Item is null when the
// id did not exist.
type StockResponse struct {
	Applied bool           `json:"applied"`
	Item    *ItemResponse  `json:"item"`
	Items   []ItemResponse `json:"items"`
}

// ListItems handles GET /api/v1/items
func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()
	visible := domain.Filter(snap, strings.TrimSpace(r.URL.Query().Get("search")))

	resp := ListResponse{
		Items:      NewItemResponses(visible),
		TotalCount: snap.Len(),
		IsLoading:  h.store.IsLoading(),
	}
	if h.highlighter != nil {
		if id, ok := h.highlighter.Current(); ok {
			resp.RecentlyUpdated = &id
		}
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// GetItem handles GET /api/v1/items/{id}
func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, ok := h.store.Snapshot().Find(r.PathValue("id"))
	if !ok {
		h.respondError(w, http.StatusNotFound, "Item not found")
		return
	}
	h.respondJSON(w, http.StatusOK, NewItemResponse(item))
}

// CreateItem handles POST /api/v1/items
func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	draft, err := h.validator.DecodeItem(w, r)
	if err != nil {
		h.respondBadRequest(w, err)
		return
	}

	item, snap := h.store.Create(ctx, draft)

	h.logger.InfoContext(ctx, "item created",
		slog.String("item_id", item.ID),
		slog.String("name", item.Name))

	h.respondJSON(w, http.StatusCreated, CreateResponse{
		Item:  NewItemResponse(item),
		Items: NewItemResponses(snap),
	})
}

// UpdateItem handles PUT /api/v1/items/{id}
func (h *InventoryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	draft, err := h.validator.DecodeItem(w, r)
	if err != nil {
		h.respondBadRequest(w, err)
		return
	}

	snap, applied := h.store.Edit(ctx, draft.WithID(id))
	if !applied {
		h.logger.DebugContext(ctx, "edit ignored for unknown item", slog.String("item_id", id))
	}

	h.respondJSON(w, http.StatusOK, MutationResponse{
		Applied: applied,
		Items:   NewItemResponses(snap),
	})
}

// DeleteItem handles DELETE /api/v1/items/{id}
func (h *InventoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	snap, applied := h.store.Delete(ctx, id)
	if applied {
		h.logger.InfoContext(ctx, "item deleted", slog.String("item_id", id))
	}

	h.respondJSON(w, http.StatusOK, MutationResponse{
		Applied: applied,
		Items:   NewItemResponses(snap),
	})
}

// AdjustStock handles POST /api/v1/items/{id}/stock
func (h *InventoryHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	delta, err := h.validator.DecodeStock(w, r)
	if err != nil {
		h.respondBadRequest(w, err)
		return
	}

	item, snap, applied := h.store.AdjustStock(ctx, id, delta)

	resp := StockResponse{
		Applied: applied,
		Items:   NewItemResponses(snap),
	}
	if applied {
		ir := NewItemResponse(item)
		resp.Item = &ir
		if h.highlighter != nil {
			h.highlighter.Highlight(id)
		}
		h.logger.InfoContext(ctx, "stock adjusted",
			slog.String("item_id", id),
			slog.Int("delta", delta),
			slog.Int("quantity", item.Quantity))
	}

	h.respondJSON(w, http.StatusOK, resp)
}
