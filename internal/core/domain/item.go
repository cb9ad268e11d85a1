// internal/core/domain/item.go
package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// PlaceholderImage is used when an item is stored without an image.
const PlaceholderImage = "https://placehold.co/100x100.png"

// ErrNameRequired is returned when a draft or item has a blank name.
var ErrNameRequired = errors.New("name is required")

// Item is a single stocked product.
type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
}

// Draft holds the fields of an item that has not been assigned an id yet.
type Draft struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
}

// Validate checks the fields the store cannot default.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

// Normalize returns a copy with quantity floored at zero, price bounded to
// [0, 1e15) and the placeholder image applied.
func (d Draft) Normalize() Draft {
	if d.Quantity < 0 {
		d.Quantity = 0
	}
	d.Price = boundPrice(d.Price)
	if d.Image == "" {
		d.Image = PlaceholderImage
	}
	return d
}

// WithID turns the draft into a normalized item.
func (d Draft) WithID(id string) Item {
	n := d.Normalize()
	return Item{
		ID:       id,
		Name:     n.Name,
		Category: n.Category,
		Quantity: n.Quantity,
		Price:    n.Price,
		Image:    n.Image,
	}
}

// Normalize applies the same defaults as Draft.Normalize while keeping the id.
func (i Item) Normalize() Item {
	return i.Draft().WithID(i.ID)
}

// Draft returns the item's mutable fields.
func (i Item) Draft() Draft {
	return Draft{
		Name:     i.Name,
		Category: i.Category,
		Quantity: i.Quantity,
		Price:    i.Price,
		Image:    i.Image,
	}
}

// Value is quantity times unit price.
func (i Item) Value() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// StockStatus classifies the item's current quantity.
func (i Item) StockStatus() StockStatus {
	return StatusFor(i.Quantity)
}

// Equal compares items field by field, treating prices by numeric value.
func (i Item) Equal(o Item) bool {
	return i.ID == o.ID &&
		i.Name == o.Name &&
		i.Category == o.Category &&
		i.Quantity == o.Quantity &&
		i.Price.Equal(o.Price) &&
		i.Image == o.Image
}

type itemWire struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Quantity any    `json:"quantity"`
	Price    any    `json:"price"`
	Image    string `json:"image"`
}

// MarshalJSON writes price as a JSON number.
func (i Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(itemWire{
		ID:       i.ID,
		Name:     i.Name,
		Category: i.Category,
		Quantity: i.Quantity,
		Price:    json.Number(i.Price.String()),
		Image:    i.Image,
	})
}

// UnmarshalJSON accepts numbers or numeric strings for price and quantity and
// normalizes the result.
func (i *Item) UnmarshalJSON(data []byte) error {
	var w itemWire
	if err := decodeNumbers(data, &w); err != nil {
		return err
	}
	*i = Item{
		ID:       w.ID,
		Name:     w.Name,
		Category: w.Category,
		Quantity: CoerceQuantity(w.Quantity),
		Price:    CoercePrice(w.Price),
		Image:    w.Image,
	}.Normalize()
	return nil
}

// UnmarshalJSON applies the same coercion as Item.
func (d *Draft) UnmarshalJSON(data []byte) error {
	var w itemWire
	if err := decodeNumbers(data, &w); err != nil {
		return err
	}
	*d = Draft{
		Name:     w.Name,
		Category: w.Category,
		Quantity: CoerceQuantity(w.Quantity),
		Price:    CoercePrice(w.Price),
		Image:    w.Image,
	}
	return nil
}

func decodeNumbers(data []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(dst)
}

var (
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d+)?|\.\d+)([eE][+-]?\d+)?`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
)

// CoercePrice converts loosely typed input into a non-negative price.
// Strings are read up to the first non-numeric character; anything
// unparseable becomes zero.
func CoercePrice(v any) decimal.Decimal {
	var d decimal.Decimal
	switch t := v.(type) {
	case decimal.Decimal:
		d = t
	case json.Number:
		d = parseDecimalPrefix(string(t))
	case string:
		d = parseDecimalPrefix(t)
	case float64:
		d = decimalFromFloat(t)
	case float32:
		d = decimalFromFloat(float64(t))
	case int:
		d = decimal.NewFromInt(int64(t))
	case int64:
		d = decimal.NewFromInt(t)
	case int32:
		d = decimal.NewFromInt(int64(t))
	default:
		return decimal.Zero
	}
	return boundPrice(d)
}

const (
	maxPriceScale  = 15
	maxPriceDigits = 64
)

var maxPrice = decimal.New(1, maxPriceScale)

// boundPrice zeroes negative and out-of-range prices and truncates the
// fraction to maxPriceScale digits. The exponent is checked before any
// arithmetic so a value like 1e9999999 is never expanded.
func boundPrice(d decimal.Decimal) decimal.Decimal {
	exp := d.Exponent()
	if exp > maxPriceScale || exp < -maxPriceDigits {
		return decimal.Zero
	}
	if exp < -maxPriceScale {
		d = d.Truncate(maxPriceScale)
	}
	if d.IsNegative() || d.GreaterThanOrEqual(maxPrice) {
		return decimal.Zero
	}
	return d
}

// CoerceQuantity converts loosely typed input into a non-negative whole
// quantity. Fractions are truncated.
func CoerceQuantity(v any) int {
	var n int64
	switch t := v.(type) {
	case int:
		n = int64(t)
	case int64:
		n = t
	case int32:
		n = int64(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			n = i
		} else if f, err := t.Float64(); err == nil {
			n = truncateFloat(f)
		}
	case float64:
		n = truncateFloat(t)
	case float32:
		n = truncateFloat(float64(t))
	case string:
		m := intPrefix.FindString(strings.TrimSpace(t))
		if m == "" {
			return 0
		}
		i, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return 0
		}
		n = i
	default:
		return 0
	}
	if n < 0 {
		return 0
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

func parseDecimalPrefix(s string) decimal.Decimal {
	m := floatPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalFromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func truncateFloat(f float64) int64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int64(f)
}
