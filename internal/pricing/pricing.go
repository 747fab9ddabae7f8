// Package pricing derives totals from cart entries. All arithmetic is int64
// minor currency units; floats only ever appear at the display boundary.
package pricing

import (
	"fmt"

	"github.com/emojimart/storefront/internal/models"
)

func LineTotal(entry models.CartEntry) int64 {
	return entry.UnitPrice * entry.Quantity
}

func GrandTotal(items map[string]models.CartEntry) int64 {
	var total int64

	for _, entry := range items {
		total += LineTotal(entry)
	}

	return total
}

// ItemCount is the total quantity across all lines, the number the checkout
// ceiling is measured against.
func ItemCount(items map[string]models.CartEntry) int64 {
	var count int64

	for _, entry := range items {
		count += entry.Quantity
	}

	return count
}

// zero-decimal currencies per the processor's convention: the minor unit is
// the major unit.
var zeroDecimal = map[string]bool{
	"jpy": true,
	"krw": true,
	"vnd": true,
}

// Format renders a minor-unit amount for display. Display-only; the result
// never feeds back into any calculation.
func Format(amount int64, currency string) string {
	if zeroDecimal[currency] {
		return fmt.Sprintf("%d", amount)
	}

	return fmt.Sprintf("%d.%02d", amount/100, amount%100)
}
