// Package ledger owns every mutation of a cart's line items. Nothing else in
// the codebase writes to Cart.Items; render and checkout code only read it.
//
// Invariants held on every exit path, including failures:
//   - every stored entry has Quantity >= 1 (an entry at 0 is removed instead)
//   - an entry's UnitPrice never changes after it is first added
//   - a failed operation leaves the cart untouched
package ledger

import (
	"fmt"
	"time"

	appErrors "github.com/emojimart/storefront/internal/errors"
	"github.com/emojimart/storefront/internal/models"
)

// Add inserts a new entry for the product or, when the id is already present,
// raises its quantity by count. The unit price of an existing entry is kept
// as-is; re-adding never reprices a line.
func Add(cart *models.Cart, product *models.Product, count int64) error {
	if count <= 0 {
		return appErrors.ValidationError("Count must be at least 1")
	}

	if product == nil || product.Price <= 0 {
		return appErrors.ValidationError("Product has no resolvable price")
	}

	if entry, exists := cart.Items[product.ID]; exists {
		entry.Quantity += count
		cart.Items[product.ID] = entry
		touch(cart)

		return nil
	}

	cart.Items[product.ID] = models.CartEntry{
		ID:        product.ID,
		Name:      product.Name,
		Emoji:     product.Emoji,
		UnitPrice: product.Price,
		Quantity:  count,
	}
	touch(cart)

	return nil
}

// Increment raises the quantity of an existing entry. Unlike Add it requires
// the entry to be present already.
func Increment(cart *models.Cart, id string, count int64) error {
	if count <= 0 {
		return appErrors.ValidationError("Count must be at least 1")
	}

	entry, exists := cart.Items[id]
	if !exists {
		return appErrors.NotFoundError(fmt.Sprintf("Item %q is not in the cart", id))
	}

	entry.Quantity += count
	cart.Items[id] = entry
	touch(cart)

	return nil
}

// Decrement lowers the quantity of an existing entry. Dropping to zero or
// below removes the entry entirely; a cart never stores a zero-quantity line.
func Decrement(cart *models.Cart, id string, count int64) error {
	if count <= 0 {
		return appErrors.ValidationError("Count must be at least 1")
	}

	entry, exists := cart.Items[id]
	if !exists {
		return appErrors.NotFoundError(fmt.Sprintf("Item %q is not in the cart", id))
	}

	if entry.Quantity-count <= 0 {
		delete(cart.Items, id)
	} else {
		entry.Quantity -= count
		cart.Items[id] = entry
	}

	touch(cart)

	return nil
}

// Remove deletes an entry unconditionally. Removing an absent id is a no-op,
// so the operation is safe to repeat.
func Remove(cart *models.Cart, id string) {
	if _, exists := cart.Items[id]; !exists {
		return
	}

	delete(cart.Items, id)
	touch(cart)
}

// Clear empties the cart. Used by the explicit clear action and after the
// processor reports the checkout session settled.
func Clear(cart *models.Cart) {
	if len(cart.Items) == 0 {
		return
	}

	cart.Items = make(map[string]models.CartEntry)
	touch(cart)
}

func touch(cart *models.Cart) {
	cart.UpdatedAt = time.Now()
}
