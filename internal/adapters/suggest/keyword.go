// internal/adapters/suggest/keyword.go
package suggest

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/ammerola/stockpile/internal/core/ports"
)

// ErrNoMatch is returned when no keyword matches the name.
var ErrNoMatch = errors.New("no category matches name")

type keywordRule struct {
	category string
	keywords []string
}

// Rules are checked in order, first hit wins.
var defaultRules = []keywordRule{
	{"Frozen", []string{"frozen", "ice cream", "popsicle", "sorbet"}},
	{"Dairy", []string{"milk", "cheese", "yogurt", "yoghurt", "butter", "cream", "egg", "eggs"}},
	{"Bakery", []string{"bread", "bagel", "baguette", "croissant", "muffin", "bun", "buns", "cake", "donut", "tortilla"}},
	{"Meat & Seafood", []string{"chicken", "beef", "pork", "lamb", "turkey", "bacon", "sausage", "ham", "steak", "salmon", "tuna", "shrimp", "fish"}},
	{"Beverages", []string{"water", "juice", "soda", "coffee", "tea", "cola", "beer", "wine", "lemonade", "kombucha"}},
	{"Snacks", []string{"chips", "crisps", "cookie", "cookies", "cracker", "crackers", "pretzel", "pretzels", "popcorn", "candy", "chocolate", "nuts"}},
	{"Household", []string{"soap", "detergent", "paper towel", "paper towels", "toilet paper", "tissue", "tissues", "sponge", "bleach", "trash bag", "trash bags"}},
	{"Produce", []string{"apple", "apples", "banana", "bananas", "orange", "oranges", "grape", "grapes", "lettuce", "spinach", "tomato", "tomatoes", "potato", "potatoes", "onion", "onions", "carrot", "carrots", "avocado", "berries", "strawberries", "lemon", "lemons", "pepper", "peppers", "cucumber", "broccoli"}},
	{"Pantry", []string{"rice", "pasta", "flour", "sugar", "salt", "oil", "beans", "cereal", "oats", "sauce", "soup", "honey", "jam", "peanut butter", "spice", "vinegar"}},
}

// KeywordSuggester maps grocery keywords in the item name to a category.
type KeywordSuggester struct {
	rules []keywordRule
}

// Statically assert that *KeywordSuggester implements the CategorySuggester interface.
var _ ports.CategorySuggester = (*KeywordSuggester)(nil)

// NewKeywordSuggester creates a suggester with the built-in grocery rules
func NewKeywordSuggester() *KeywordSuggester {
	return &KeywordSuggester{rules: defaultRules}
}

// SuggestCategory matches whole words of name against the rules. Phrases
// ("peanut butter") are tried before single words ("butter").
func (k *KeywordSuggester) SuggestCategory(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	padded := " " + strings.Join(tokenize(name), " ") + " "
	for _, phrases := range []bool{true, false} {
		for _, rule := range k.rules {
			for _, kw := range rule.keywords {
				if strings.Contains(kw, " ") != phrases {
					continue
				}
				if strings.Contains(padded, " "+kw+" ") {
					return rule.category, nil
				}
			}
		}
	}
	return "", ErrNoMatch
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
