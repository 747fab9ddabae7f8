package pricing_test

import (
	"testing"

	"github.com/emojimart/storefront/internal/models"
	"github.com/emojimart/storefront/internal/pricing"
	"github.com/stretchr/testify/assert"
)

func TestLineTotal(t *testing.T) {
	entry := models.CartEntry{ID: "emoji_pizza", Name: "Pizza", UnitPrice: 500, Quantity: 3}

	assert.Equal(t, int64(1500), pricing.LineTotal(entry))
}

func TestGrandTotal(t *testing.T) {
	t.Run("empty cart totals zero", func(t *testing.T) {
		assert.Equal(t, int64(0), pricing.GrandTotal(map[string]models.CartEntry{}))
	})

	t.Run("sums unit price times quantity over all entries", func(t *testing.T) {
		items := map[string]models.CartEntry{
			"A": {ID: "A", UnitPrice: 100, Quantity: 2},
			"B": {ID: "B", UnitPrice: 500, Quantity: 1},
			"C": {ID: "C", UnitPrice: 1200, Quantity: 4},
		}

		assert.Equal(t, int64(100*2+500*1+1200*4), pricing.GrandTotal(items))
	})
}

func TestItemCount(t *testing.T) {
	items := map[string]models.CartEntry{
		"A": {ID: "A", UnitPrice: 100, Quantity: 2},
		"B": {ID: "B", UnitPrice: 500, Quantity: 18},
	}

	assert.Equal(t, int64(20), pricing.ItemCount(items))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		currency string
		want     string
	}{
		{"jpy has no minor digits", 500, "jpy", "500"},
		{"usd renders cents", 1999, "usd", "19.99"},
		{"usd pads cents", 1005, "usd", "10.05"},
		{"krw is zero-decimal", 12000, "krw", "12000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pricing.Format(tt.amount, tt.currency))
		})
	}
}
