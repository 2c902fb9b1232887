package model

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Item is a single marketplace listing.
type Item struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Height      *float64  `json:"height"`
	Length      *float64  `json:"length"`
	Depth       *float64  `json:"depth"`
	Color       string    `json:"color"`
	Material    string    `json:"material"`
	Condition   string    `json:"condition"`
	Notes       string    `json:"notes"`
	Status      string    `json:"status"`
	DateAdded   time.Time `json:"date_added"`
	DateUpdated time.Time `json:"date_updated"`

	// ImagePath is the stored file name. Clients only ever see ImageURL.
	ImagePath string  `json:"-"`
	ImageURL  *string `json:"image_url"`
}

// Item statuses.
const (
	ItemStatusAvailable = "available"
	ItemStatusSold      = "sold"
)

// DefaultCondition is used when an item is saved without a condition.
const DefaultCondition = "excellent"

// ValidItemStatus reports whether s is a known item status.
func ValidItemStatus(s string) bool {
	return s == ItemStatusAvailable || s == ItemStatusSold
}

// ItemFilter narrows a public item listing. Empty fields match everything.
type ItemFilter struct {
	Status   string
	Category string
	Search   string
}

// ItemForm holds the raw, untrusted field values of an item write request.
type ItemForm struct {
	Name        string
	Price       string
	Category    string
	Description string
	Height      string
	Length      string
	Depth       string
	Color       string
	Material    string
	Condition   string
	Notes       string
	Status      string
}

// ItemFields are validated, typed values ready to be written to the store.
type ItemFields struct {
	Name        string
	Price       float64
	Category    string
	Description string
	Height      *float64
	Length      *float64
	Depth       *float64
	Color       string
	Material    string
	Condition   string
	Notes       string
	Status      string
}

// Parse validates the form and coerces its values. Missing condition and
// status fall back to their defaults.
func (f ItemForm) Parse() (ItemFields, error) {
	fields := ItemFields{
		Name:        strings.TrimSpace(f.Name),
		Category:    strings.TrimSpace(f.Category),
		Description: strings.TrimSpace(f.Description),
		Color:       strings.TrimSpace(f.Color),
		Material:    strings.TrimSpace(f.Material),
		Condition:   strings.TrimSpace(f.Condition),
		Notes:       strings.TrimSpace(f.Notes),
		Status:      strings.TrimSpace(f.Status),
	}

	price := strings.TrimSpace(f.Price)
	if fields.Name == "" || price == "" || fields.Category == "" {
		return ItemFields{}, NewValidationError("name, price, and category are required")
	}

	p, err := parseDecimal("price", price)
	if err != nil {
		return ItemFields{}, err
	}
	fields.Price = *p

	if fields.Height, err = parseDecimal("height", f.Height); err != nil {
		return ItemFields{}, err
	}
	if fields.Length, err = parseDecimal("length", f.Length); err != nil {
		return ItemFields{}, err
	}
	if fields.Depth, err = parseDecimal("depth", f.Depth); err != nil {
		return ItemFields{}, err
	}

	if fields.Condition == "" {
		fields.Condition = DefaultCondition
	}
	if fields.Status == "" {
		fields.Status = ItemStatusAvailable
	}
	if !ValidItemStatus(fields.Status) {
		return ItemFields{}, NewValidationError(`status must be either "available" or "sold"`)
	}

	return fields, nil
}

// parseDecimal parses an optional non-negative decimal. An empty value yields nil.
func parseDecimal(field, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, NewValidationError("%s must be a number", field)
	}
	if v < 0 {
		return nil, NewValidationError("%s must not be negative", field)
	}
	return &v, nil
}
