// Package checkout turns cart state into a processor-agnostic checkout
// request. It is a pure transform plus validation gate; it never touches the
// network, so it can be tested without a payment processor in sight.
package checkout

import (
	"fmt"
	"sort"
	"strings"

	appErrors "github.com/emojimart/storefront/internal/errors"
	"github.com/emojimart/storefront/internal/models"
	"github.com/microcosm-cc/bluemonday"
)

type Builder struct {
	maxItems  int64
	sanitizer *bluemonday.Policy
}

func NewBuilder(maxItems int64) *Builder {
	return &Builder{
		maxItems:  maxItems,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Build projects the cart into a validated list of line items, ordered by id
// so the output is deterministic. It either returns the full list or an
// error; a partially validated list is never emitted.
func (b *Builder) Build(items map[string]models.CartEntry) ([]models.CheckoutLineItem, error) {
	if len(items) == 0 {
		return nil, appErrors.EmptyCartError("Cart is empty")
	}

	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	lineItems := make([]models.CheckoutLineItem, 0, len(items))
	for _, id := range ids {
		entry := items[id]
		lineItems = append(lineItems, models.CheckoutLineItem{
			Name:      entry.Name,
			UnitPrice: entry.UnitPrice,
			Quantity:  entry.Quantity,
		})
	}

	return b.Sanitize(lineItems)
}

// Sanitize validates an already-projected list, the path used for payloads
// submitted directly by clients. Display names are stripped of any markup
// before they leave the system.
func (b *Builder) Sanitize(lineItems []models.CheckoutLineItem) ([]models.CheckoutLineItem, error) {
	if len(lineItems) == 0 {
		return nil, appErrors.EmptyCartError("Cart is empty")
	}

	var itemCount int64

	out := make([]models.CheckoutLineItem, 0, len(lineItems))

	for i, item := range lineItems {
		if item.Quantity <= 0 {
			return nil, appErrors.ValidationError(fmt.Sprintf("Line item %d has a non-positive quantity", i))
		}

		if item.UnitPrice <= 0 {
			return nil, appErrors.ValidationError(fmt.Sprintf("Line item %d has a non-positive unit price", i))
		}

		name := strings.TrimSpace(b.sanitizer.Sanitize(item.Name))
		if name == "" {
			return nil, appErrors.ValidationError(fmt.Sprintf("Line item %d has no display name", i))
		}

		itemCount += item.Quantity

		out = append(out, models.CheckoutLineItem{
			Name:      name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	if itemCount > b.maxItems {
		return nil, appErrors.TooManyItemsError(fmt.Sprintf("Cart holds %d items, the maximum is %d", itemCount, b.maxItems))
	}

	return out, nil
}
