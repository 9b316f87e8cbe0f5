package models

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidName  = errors.New("item name is required")
	ErrInvalidPrice = errors.New("item price must be a positive number")
)

// LineItem represents a single line on a bill.
// Items can be shared among multiple participants.
type LineItem struct {
	// Name is the description of the item (e.g., "Pizza", "Beer").
	Name string `json:"name"`

	// Price is the unit price of the item.
	Price float64 `json:"price"`

	// Quantity is how many units were ordered. Always at least 1 for items
	// built through NewLineItem.
	Quantity int `json:"quantity"`

	// AssignedTo is the list of participant names who split this item.
	// If multiple people are assigned, the line total is split equally.
	// Order is preserved for display; entries are unique.
	AssignedTo []string `json:"assigned_to"`
}

// Total returns price × quantity.
func (i LineItem) Total() float64 {
	return i.Price * float64(i.Quantity)
}

// IsAssigned reports whether the participant is in the item's assignment set.
func (i LineItem) IsAssigned(participant string) bool {
	for _, p := range i.AssignedTo {
		if p == participant {
			return true
		}
	}
	return false
}

// Clone returns a copy of the item that shares no memory with the original.
func (i LineItem) Clone() LineItem {
	out := i
	out.AssignedTo = make([]string, len(i.AssignedTo))
	copy(out.AssignedTo, i.AssignedTo)
	return out
}

// NewLineItem validates the given fields and builds an unassigned item.
// The name is trimmed and must be non-empty, the price must be finite and
// positive. A quantity below 1 defaults to 1.
func NewLineItem(name string, price float64, quantity int) (LineItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return LineItem{}, ErrInvalidName
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return LineItem{}, ErrInvalidPrice
	}
	if quantity < 1 {
		quantity = 1
	}
	return LineItem{
		Name:       name,
		Price:      price,
		Quantity:   quantity,
		AssignedTo: []string{},
	}, nil
}

// ParseLineItem builds an item from raw text input, the way a form would
// submit it. The price must parse as a number. The quantity defaults to 1
// when it is empty or does not start with a positive integer; a leading
// integer prefix ("2x") is accepted.
func ParseLineItem(name, priceText, quantityText string) (LineItem, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(priceText), 64)
	if err != nil {
		return LineItem{}, ErrInvalidPrice
	}
	return NewLineItem(name, price, parseQuantity(quantityText))
}

// parseQuantity reads the leading decimal integer of s, returning 1 when
// there is none or it is not positive.
func parseQuantity(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 1
	}
	q, err := strconv.Atoi(s[:end])
	if err != nil || q < 1 {
		return 1
	}
	return q
}
