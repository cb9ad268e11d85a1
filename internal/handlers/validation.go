// internal/handlers/validation.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ammerola/stockpile/internal/core/domain"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

// ErrInvalidBody is returned when a request body is not valid JSON.
var ErrInvalidBody = errors.New("invalid request body")

// ItemRequest is the body of create and update requests. Quantity and price
// are loosely typed and coerced the same way stored records are.
type ItemRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Category string `json:"category"`
	Quantity any    `json:"quantity"`
	Price    any    `json:"price"`
	Image    string `json:"image"`
}

// Draft converts the request into a domain draft.
func (r ItemRequest) Draft() domain.Draft {
	return domain.Draft{
		Name:     r.Name,
		Category: r.Category,
		Quantity: domain.CoerceQuantity(r.Quantity),
		Price:    domain.CoercePrice(r.Price),
		Image:    r.Image,
	}
}

// StockRequest is the body of a stock adjustment.
type StockRequest struct {
	Delta *int `json:"delta" validate:"required"`
}

// SuggestRequest is the body of a category suggestion request.
type SuggestRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// RequestValidator decodes and validates request bodies
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates a validator that reports JSON field names.
func NewRequestValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{validate: v}
}

// DecodeItem reads an ItemRequest and returns it as a draft.
func (rv *RequestValidator) DecodeItem(w http.ResponseWriter, r *http.Request) (domain.Draft, error) {
	var req ItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return domain.Draft{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	req.Image = strings.TrimSpace(req.Image)

	if err := rv.Struct(&req); err != nil {
		return domain.Draft{}, err
	}
	return req.Draft(), nil
}

// DecodeStock reads a StockRequest and returns the delta.
func (rv *RequestValidator) DecodeStock(w http.ResponseWriter, r *http.Request) (int, error) {
	var req StockRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return 0, err
	}
	if err := rv.Struct(&req); err != nil {
		return 0, err
	}
	return *req.Delta, nil
}

// DecodeSuggest reads a SuggestRequest and returns the trimmed name.
func (rv *RequestValidator) DecodeSuggest(w http.ResponseWriter, r *http.Request) (string, error) {
	var req SuggestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return "", err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := rv.Struct(&req); err != nil {
		return "", err
	}
	return req.Name, nil
}

// Struct validates v and flattens field errors into one readable message.
func (rv *RequestValidator) Struct(v any) error {
	err := rv.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validation failed: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data", ErrInvalidBody)
	}
	return nil
}
