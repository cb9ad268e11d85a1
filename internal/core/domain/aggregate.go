// internal/core/domain/aggregate.go
package domain

import "github.com/shopspring/decimal"

// CategoryCount is the number of distinct items sharing a category.
type CategoryCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// StockLevelCount is the number of items in a stock status.
type StockLevelCount struct {
	Status StockStatus `json:"status"`
	Label  string      `json:"label"`
	Count  int         `json:"count"`
}

// Summary holds the dashboard aggregates for a snapshot.
type Summary struct {
	TotalItems    int               `json:"total_items"`
	TotalQuantity int               `json:"total_quantity"`
	TotalValue    decimal.Decimal   `json:"total_value"`
	Categories    []CategoryCount   `json:"categories"`
	StockLevels   []StockLevelCount `json:"stock_levels"`
}

// Summarize computes all aggregates in one pass.
func Summarize(s Snapshot) Summary {
	sum := Summary{
		TotalItems:  s.Len(),
		TotalValue:  decimal.Zero,
		Categories:  []CategoryCount{},
		StockLevels: make([]StockLevelCount, len(StockStatuses)),
	}
	for i, st := range StockStatuses {
		sum.StockLevels[i] = StockLevelCount{Status: st, Label: st.Label()}
	}

	index := make(map[string]int)
	for _, it := range s.items {
		sum.TotalQuantity += it.Quantity
		sum.TotalValue = sum.TotalValue.Add(it.Value())

		if i, ok := index[it.Category]; ok {
			sum.Categories[i].Value++
		} else {
			index[it.Category] = len(sum.Categories)
			sum.Categories = append(sum.Categories, CategoryCount{Name: it.Category, Value: 1})
		}

		sum.StockLevels[it.StockStatus().rank()].Count++
	}
	return sum
}

// TotalQuantity sums quantities.
func TotalQuantity(s Snapshot) int {
	total := 0
	for _, it := range s.items {
		total += it.Quantity
	}
	return total
}

// TotalValue sums quantity times price.
func TotalValue(s Snapshot) decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.Value())
	}
	return total
}

// CategoryDistribution counts items per category in order of first
// appearance.
func CategoryDistribution(s Snapshot) []CategoryCount {
	return Summarize(s).Categories
}
