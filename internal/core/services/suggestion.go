// internal/core/services/suggestion.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ammerola/stockpile/internal/core/domain"
	"github.com/ammerola/stockpile/internal/core/ports"
)

// ErrSuggestionUnavailable wraps any failure of the category suggester.
var ErrSuggestionUnavailable = errors.New("category suggestion unavailable")

// SuggestionFailureMessage is shown to users when no suggestion can be made.
const SuggestionFailureMessage = "Could not suggest a category. Please enter one manually."

const defaultSuggestTimeout = 10 * time.Second

// CategoryService asks the configured suggester for a category. It never
// touches the inventory store.
type CategoryService struct {
	suggester ports.CategorySuggester
	timeout   time.Duration
	logger    *slog.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(suggester ports.CategorySuggester, timeout time.Duration, logger *slog.Logger) *CategoryService {
	if timeout <= 0 {
		timeout = defaultSuggestTimeout
	}
	return &CategoryService{
		suggester: suggester,
		timeout:   timeout,
		logger:    logger.With(slog.String("service", "category")),
	}
}

// Suggest returns a trimmed, non-empty category for name.
func (c *CategoryService) Suggest(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if c.suggester == nil {
		return "", fmt.Errorf("%w: no suggester configured", ErrSuggestionUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	category, err := c.suggester.SuggestCategory(ctx, name)
	if err != nil {
		c.logger.WarnContext(ctx, "category suggestion failed",
			slog.String("name", name),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %w", ErrSuggestionUnavailable, err)
	}

	category = strings.TrimSpace(category)
	if category == "" {
		return "", fmt.Errorf("%w: empty suggestion", ErrSuggestionUnavailable)
	}

	c.logger.DebugContext(ctx, "category suggested",
		slog.String("name", name),
		slog.String("category", category))
	return category, nil
}
