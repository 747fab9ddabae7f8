package models

import (
	"time"

	"github.com/google/uuid"
)

// CartEntry is one priced line in a cart. UnitPrice is in minor currency
// units and never changes after the entry is first added.
type CartEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Emoji     string `json:"emoji,omitempty"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
}

type Cart struct {
	ID        uuid.UUID            `json:"id"`
	Items     map[string]CartEntry `json:"items"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Count     int64  `json:"count"      validate:"omitempty,min=1"`
}

type QuantityRequest struct {
	Count int64 `json:"count" validate:"omitempty,min=1"`
}

// CartLineView is a render-ready projection of a CartEntry.
type CartLineView struct {
	CartEntry
	LineTotal int64 `json:"line_total"`
}

type CartView struct {
	ID        uuid.UUID      `json:"id"`
	Items     []CartLineView `json:"items"`
	ItemCount int64          `json:"item_count"`
	Subtotal  int64          `json:"subtotal"`
	UpdatedAt time.Time      `json:"updated_at"`
}
