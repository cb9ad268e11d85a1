// internal/core/ports/suggester.go
package ports

import "context"

// CategorySuggester proposes a category for an item name.
type CategorySuggester interface {
	SuggestCategory(ctx context.Context, name string) (string, error)
}
