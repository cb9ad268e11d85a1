// test/benchmarks/helpers.go
package benchmarks

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ammerola/stockpile/internal/core/domain"
)

var benchmarkProducts = []struct {
	name     string
	category string
}{
	{"Organic Fuji Apples", "Produce"},
	{"Whole Milk 1 Gallon", "Dairy"},
	{"Sourdough Bread Loaf", "Bakery"},
	{"Free Range Chicken Breast", "Meat & Seafood"},
	{"Sparkling Water 12 Pack", "Beverages"},
	{"Sea Salt Potato Chips", "Snacks"},
	{"Laundry Detergent", "Household"},
	{"Basmati Rice 5lb", "Pantry"},
	{"Vanilla Ice Cream", "Frozen"},
	{"Sharp Cheddar Cheese", "Dairy"},
}

// createBenchmarkSnapshot builds n items cycling through every stock status.
func createBenchmarkSnapshot(n int) domain.Snapshot {
	items := make([]domain.Item, n)
	for i := range items {
		p := benchmarkProducts[i%len(benchmarkProducts)]
		items[i] = domain.Item{
			ID:       "bench-" + strconv.Itoa(i),
			Name:     fmt.Sprintf("%s #%d", p.name, i),
			Category: p.category,
			Quantity: (i * 7) % 80,
			Price:    decimal.New(int64(99+i%500), -2),
			Image:    domain.PlaceholderImage,
		}
	}
	return domain.NewSnapshot(items...)
}

// benchmarkNames returns the product names used by the suggester benchmarks.
func benchmarkNames() []string {
	names := make([]string, len(benchmarkProducts))
	for i, p := range benchmarkProducts {
		names[i] = p.name
	}
	return names
}
