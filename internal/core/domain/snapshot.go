// internal/core/domain/snapshot.go
package domain

import (
	"encoding/json"
	"iter"
)

// Snapshot is an immutable, ordered view of the inventory. Methods that
// change the collection return a new Snapshot and leave the receiver intact.
type Snapshot struct {
	items []Item
}

// NewSnapshot copies items into a snapshot. Later items whose id has already
// been seen are dropped.
func NewSnapshot(items ...Item) Snapshot {
	if len(items) == 0 {
		return Snapshot{}
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return Snapshot{items: out}
}

// Len returns the number of items.
func (s Snapshot) Len() int { return len(s.items) }

// IsEmpty reports whether the snapshot holds no items.
func (s Snapshot) IsEmpty() bool { return len(s.items) == 0 }

// At returns the item at position i. It panics if i is out of range.
func (s Snapshot) At(i int) Item { return s.items[i] }

// Items returns a copy of the items in order. The result is never nil.
func (s Snapshot) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// All iterates over position and item.
func (s Snapshot) All() iter.Seq2[int, Item] {
	return func(yield func(int, Item) bool) {
		for i, it := range s.items {
			if !yield(i, it) {
				return
			}
		}
	}
}

// IDs returns the item ids in order.
func (s Snapshot) IDs() []string {
	ids := make([]string, len(s.items))
	for i, it := range s.items {
		ids[i] = it.ID
	}
	return ids
}

// IndexOf returns the position of id, or -1.
func (s Snapshot) IndexOf(id string) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Find looks up an item by id.
func (s Snapshot) Find(id string) (Item, bool) {
	if i := s.IndexOf(id); i >= 0 {
		return s.items[i], true
	}
	return Item{}, false
}

// Append returns a snapshot with item added at the end.
func (s Snapshot) Append(item Item) Snapshot {
	out := make([]Item, len(s.items), len(s.items)+1)
	copy(out, s.items)
	return Snapshot{items: append(out, item)}
}

// Replace swaps the item with the same id in place. The second result is
// false, and the receiver is returned, when no such item exists.
func (s Snapshot) Replace(item Item) (Snapshot, bool) {
	i := s.IndexOf(item.ID)
	if i < 0 {
		return s, false
	}
	out := s.Items()
	out[i] = item
	return Snapshot{items: out}, true
}

// Remove drops the item with id. The second result is false, and the
// receiver is returned, when no such item exists.
func (s Snapshot) Remove(id string) (Snapshot, bool) {
	i := s.IndexOf(id)
	if i < 0 {
		return s, false
	}
	out := make([]Item, 0, len(s.items)-1)
	out = append(out, s.items[:i]...)
	out = append(out, s.items[i+1:]...)
	return Snapshot{items: out}, true
}

// Normalized returns a snapshot with every item normalized.
func (s Snapshot) Normalized() Snapshot {
	out := make([]Item, len(s.items))
	for i, it := range s.items {
		out[i] = it.Normalize()
	}
	return Snapshot{items: out}
}

// Equal reports whether both snapshots hold equal items in the same order.
func (s Snapshot) Equal(o Snapshot) bool {
	if len(s.items) != len(o.items) {
		return false
	}
	for i := range s.items {
		if !s.items[i].Equal(o.items[i]) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the snapshot as a JSON array of items.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Items())
}

// UnmarshalJSON decodes a JSON array of items. A JSON null yields an empty
// snapshot.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*s = NewSnapshot(items...)
	return nil
}
