package models

import "encoding/json"

// CartEntry is one line of a session cart: a dish id mapped to a snapshot of
// the dish name and price taken when it was added, plus the desired quantity.
// The snapshot is deliberate: the cart is denormalized for cheap reads and a
// later price change does not affect items already in a cart.
type CartEntry struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Valid reports whether the entry satisfies the cart invariants: a positive
// quantity and a non-negative price.
func (e CartEntry) Valid() bool {
	return e.Quantity > 0 && e.Price >= 0
}

// RawCart is a cart as stored: dish id (decimal string) -> raw JSON entry.
// Entries stay raw until the cart manager validates them, so corrupted data
// (for example after a schema change) reaches the validation layer intact
// instead of failing the whole read.
type RawCart map[string]json.RawMessage
