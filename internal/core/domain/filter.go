// internal/core/domain/filter.go
package domain

import "strings"

// Filter keeps items whose name or category contains query, ignoring case.
// An empty query returns s unchanged.
func Filter(s Snapshot, query string) Snapshot {
	if query == "" {
		return s
	}
	q := strings.ToLower(query)
	out := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		if strings.Contains(strings.ToLower(it.Name), q) ||
			strings.Contains(strings.ToLower(it.Category), q) {
			out = append(out, it)
		}
	}
	return Snapshot{items: out}
}
