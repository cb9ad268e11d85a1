// internal/handlers/category.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ammerola/stockpile/internal/core/services"
)

// CategorySuggestService proposes a category for an item name.
// *services.CategoryService satisfies it.
type CategorySuggestService interface {
	Suggest(ctx context.Context, name string) (string, error)
}

// CategoryHandler serves category suggestions. It never touches the store.
type CategoryHandler struct {
	responder
	service   CategorySuggestService
	validator *RequestValidator
	logger    *slog.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(service CategorySuggestService, validator *RequestValidator, logger *slog.Logger) *CategoryHandler {
	if validator == nil {
		validator = NewRequestValidator()
	}
	l := logger.With(slog.String("handler", "category"))
	return &CategoryHandler{
		responder: responder{logger: l},
		service:   service,
		validator: validator,
		logger:    l,
	}
}

// SuggestResponse mirrors the remote suggester's response shape.
type SuggestResponse struct {
	CategorySuggestion string `json:"categorySuggestion"`
}

// SuggestCategory handles POST /api/v1/categories/suggest
func (h *CategoryHandler) SuggestCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name, err := h.validator.DecodeSuggest(w, r)
	if err != nil {
		h.respondBadRequest(w, err)
		return
	}

	category, err := h.service.Suggest(ctx, name)
	if err != nil {
		h.logger.WarnContext(ctx, "category suggestion unavailable",
			slog.String("name", name),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusServiceUnavailable, services.SuggestionFailureMessage)
		return
	}

	h.respondJSON(w, http.StatusOK, SuggestResponse{CategorySuggestion: category})
}
