package ledger_test

import (
	"testing"
	"time"

	appErrors "github.com/emojimart/storefront/internal/errors"
	"github.com/emojimart/storefront/internal/ledger"
	"github.com/emojimart/storefront/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCart() *models.Cart {
	return &models.Cart{
		ID:        uuid.New(),
		Items:     make(map[string]models.CartEntry),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func pizza() *models.Product {
	return &models.Product{ID: "emoji_pizza", Name: "Pizza", Emoji: "🍕", Price: 500, Currency: "jpy", Status: "active"}
}

func sushi() *models.Product {
	return &models.Product{ID: "emoji_sushi", Name: "Sushi", Emoji: "🍣", Price: 1200, Currency: "jpy", Status: "active"}
}

func assertInvariants(t *testing.T, cart *models.Cart) {
	t.Helper()

	for id, entry := range cart.Items {
		assert.Equal(t, id, entry.ID, "map key must match entry id")
		assert.GreaterOrEqual(t, entry.Quantity, int64(1), "no stored entry may have quantity below 1")
		assert.Positive(t, entry.UnitPrice, "no stored entry may have a non-positive price")
	}
}

func TestAdd(t *testing.T) {
	t.Run("inserts a new entry", func(t *testing.T) {
		cart := newCart()

		require.NoError(t, ledger.Add(cart, pizza(), 2))

		entry := cart.Items["emoji_pizza"]
		assert.Equal(t, int64(2), entry.Quantity)
		assert.Equal(t, int64(500), entry.UnitPrice)
		assert.Equal(t, "Pizza", entry.Name)
		assertInvariants(t, cart)
	})

	t.Run("re-adding increments quantity and keeps the original price", func(t *testing.T) {
		cart := newCart()
		require.NoError(t, ledger.Add(cart, pizza(), 1))

		repriced := pizza()
		repriced.Price = 900

		require.NoError(t, ledger.Add(cart, repriced, 3))

		entry := cart.Items["emoji_pizza"]
		assert.Equal(t, int64(4), entry.Quantity)
		assert.Equal(t, int64(500), entry.UnitPrice, "unit price is immutable once added")
		assertInvariants(t, cart)
	})

	t.Run("rejects a non-positive count", func(t *testing.T) {
		cart := newCart()

		err := ledger.Add(cart, pizza(), 0)

		require.Error(t, err)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
		assert.Empty(t, cart.Items, "a failed add must leave the cart untouched")
	})

	t.Run("rejects a product without a resolvable price", func(t *testing.T) {
		cart := newCart()
		free := pizza()
		free.Price = 0

		err := ledger.Add(cart, free, 1)

		require.Error(t, err)
		appErr, _ := appErrors.IsAppError(err)
		assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
		assert.Empty(t, cart.Items)
	})
}

func TestIncrement(t *testing.T) {
	t.Run("raises the quantity of an existing entry", func(t *testing.T) {
		cart := newCart()
		require.NoError(t, ledger.Add(cart, sushi(), 1))

		require.NoError(t, ledger.Increment(cart, "emoji_sushi", 2))

		assert.Equal(t, int64(3), cart.Items["emoji_sushi"].Quantity)
		assertInvariants(t, cart)
	})

	t.Run("fails on an absent entry", func(t *testing.T) {
		cart := newCart()

		err := ledger.Increment(cart, "emoji_sushi", 1)

		require.Error(t, err)
		appErr, _ := appErrors.IsAppError(err)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		assert.Empty(t, cart.Items)
	})
}

func TestDecrement(t *testing.T) {
	t.Run("lowers the quantity", func(t *testing.T) {
		cart := newCart()
		require.NoError(t, ledger.Add(cart, pizza(), 3))

		require.NoError(t, ledger.Decrement(cart, "emoji_pizza", 1))

		assert.Equal(t, int64(2), cart.Items["emoji_pizza"].Quantity)
		assertInvariants(t, cart)
	})

	t.Run("removes the entry at quantity one", func(t *testing.T) {
		cart := newCart()
		require.NoError(t, ledger.Add(cart, pizza(), 1))

		require.NoError(t, ledger.Decrement(cart, "emoji_pizza", 1))

		_, exists := cart.Items["emoji_pizza"]
		assert.False(t, exists, "decrementing the last unit removes the line, it never leaves quantity 0")
		assertInvariants(t, cart)
	})

	t.Run("removes the entry when the count overshoots", func(t *testing.T) {
		cart := newCart()
		require.NoError(t, ledger.Add(cart, pizza(), 2))

		require.NoError(t, ledger.Decrement(cart, "emoji_pizza", 5))

		assert.Empty(t, cart.Items)
		assertInvariants(t, cart)
	})

	t.Run("fails on an absent entry", func(t *testing.T) {
		cart := newCart()

		err := ledger.Decrement(cart, "emoji_pizza", 1)

		require.Error(t, err)
		appErr, _ := appErrors.IsAppError(err)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestRemove(t *testing.T) {
	t.Run("deletes a present entry", func(t *testing.T) {
		cart := newCart()
		require.NoError(t, ledger.Add(cart, pizza(), 2))

		ledger.Remove(cart, "emoji_pizza")

		assert.Empty(t, cart.Items)
	})

	t.Run("is a no-op on an absent entry", func(t *testing.T) {
		cart := newCart()
		require.NoError(t, ledger.Add(cart, sushi(), 1))

		ledger.Remove(cart, "emoji_pizza")

		assert.Len(t, cart.Items, 1, "removing an absent id must not disturb other entries")
		assertInvariants(t, cart)
	})
}

func TestClear(t *testing.T) {
	cart := newCart()
	require.NoError(t, ledger.Add(cart, pizza(), 2))
	require.NoError(t, ledger.Add(cart, sushi(), 1))

	ledger.Clear(cart)

	assert.Empty(t, cart.Items)
	assertInvariants(t, cart)
}

// The invariant the whole package exists for: no sequence of the four
// operations can leave a stored entry with quantity below 1.
func TestOperationSequencesHoldInvariants(t *testing.T) {
	cart := newCart()

	steps := []func() error{
		func() error { return ledger.Add(cart, pizza(), 1) },
		func() error { return ledger.Add(cart, sushi(), 3) },
		func() error { return ledger.Decrement(cart, "emoji_pizza", 1) }, // removes pizza
		func() error { return ledger.Decrement(cart, "emoji_pizza", 1) }, // NotFound
		func() error { return ledger.Increment(cart, "emoji_sushi", 2) },
		func() error { return ledger.Add(cart, pizza(), 2) },
		func() error { return ledger.Increment(cart, "emoji_pizza", 0) }, // InvalidArgument
		func() error { return ledger.Decrement(cart, "emoji_sushi", 4) },
		func() error { ledger.Remove(cart, "missing"); return nil },
		func() error { return ledger.Decrement(cart, "emoji_sushi", 1) }, // removes sushi
	}

	for i, step := range steps {
		_ = step()
		for _, entry := range cart.Items {
			require.GreaterOrEqual(t, entry.Quantity, int64(1), "step %d violated the quantity invariant", i)
		}
	}

	assert.Equal(t, int64(2), cart.Items["emoji_pizza"].Quantity)
	_, sushiLeft := cart.Items["emoji_sushi"]
	assert.False(t, sushiLeft)
}
