package models

import "time"

// Product IDs are opaque strings; they may encode a price tier, so the id is
// the unit the cart keys on.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Emoji     string    `json:"emoji,omitempty"`
	Price     int64     `json:"price"` // minor units
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
