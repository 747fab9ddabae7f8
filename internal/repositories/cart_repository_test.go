package repository_test

import (
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/emojimart/storefront/internal/models"
	repository "github.com/emojimart/storefront/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCartRepoTest(t *testing.T) (repository.CartRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	repo := repository.NewCartRepo(db)
	require.NotNil(t, repo, "NewCartRepo should return a non-nil repository")

	return repo, mock
}

// mirrors the repository's snapshot shape, field order included, so the
// expected bytes match what the repository writes.
type testSnapshot struct {
	Version int                         `json:"version"`
	Entries map[string]models.CartEntry `json:"entries"`
}

func snapshotJSON(t *testing.T, entries map[string]models.CartEntry) []byte {
	t.Helper()

	data, err := json.Marshal(testSnapshot{Version: repository.SnapshotVersion, Entries: entries})
	require.NoError(t, err)

	return data
}

func TestCreateCart(t *testing.T) {
	repo, mock := setupCartRepoTest(t)
	ctx := t.Context()

	cartID := uuid.New()
	now := time.Now()
	cart := &models.Cart{
		ID:    cartID,
		Items: make(map[string]models.CartEntry),
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO carts`).
			WithArgs(cart.ID, snapshotJSON(t, cart.Items)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(cartID, now, now))

		err := repo.CreateCart(ctx, cart)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		dbErr := errors.New("connection refused")
		mock.ExpectQuery(`INSERT INTO carts`).
			WithArgs(cart.ID, snapshotJSON(t, cart.Items)).
			WillReturnError(dbErr)

		err := repo.CreateCart(ctx, cart)

		require.Error(t, err)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetCartByID(t *testing.T) {
	repo, mock := setupCartRepoTest(t)
	ctx := t.Context()

	cartID := uuid.New()
	now := time.Now()

	t.Run("Success - Snapshot Round Trip", func(t *testing.T) {
		entries := map[string]models.CartEntry{
			"A": {ID: "A", Name: "Item A", UnitPrice: 100, Quantity: 2},
			"B": {ID: "B", Name: "Item B", UnitPrice: 500, Quantity: 1},
		}

		mock.ExpectQuery(`SELECT id, snapshot, created_at, updated_at`).
			WithArgs(cartID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "snapshot", "created_at", "updated_at"}).
				AddRow(cartID, snapshotJSON(t, entries), now, now))

		cart, err := repo.GetCartByID(ctx, cartID)

		require.NoError(t, err)
		assert.Equal(t, cartID, cart.ID)
		assert.Equal(t, entries, cart.Items, "the restored ledger must be structurally equal to the persisted one")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Corrupt snapshot restores as empty cart", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, snapshot, created_at, updated_at`).
			WithArgs(cartID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "snapshot", "created_at", "updated_at"}).
				AddRow(cartID, []byte(`{"version":1,"entr`), now, now))

		cart, err := repo.GetCartByID(ctx, cartID)

		require.NoError(t, err, "a corrupt snapshot must never fail the restore path")
		assert.Empty(t, cart.Items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown snapshot version restores as empty cart", func(t *testing.T) {
		blob, err := json.Marshal(map[string]any{
			"version": 99,
			"entries": map[string]models.CartEntry{"A": {ID: "A", Name: "Item A", UnitPrice: 100, Quantity: 2}},
		})
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT id, snapshot, created_at, updated_at`).
			WithArgs(cartID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "snapshot", "created_at", "updated_at"}).
				AddRow(cartID, blob, now, now))

		cart, err := repo.GetCartByID(ctx, cartID)

		require.NoError(t, err)
		assert.Empty(t, cart.Items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Snapshot entries violating invariants are dropped", func(t *testing.T) {
		entries := map[string]models.CartEntry{
			"good": {ID: "good", Name: "Good", UnitPrice: 100, Quantity: 1},
			"bad":  {ID: "bad", Name: "Bad", UnitPrice: 100, Quantity: 0},
		}

		mock.ExpectQuery(`SELECT id, snapshot, created_at, updated_at`).
			WithArgs(cartID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "snapshot", "created_at", "updated_at"}).
				AddRow(cartID, snapshotJSON(t, entries), now, now))

		cart, err := repo.GetCartByID(ctx, cartID)

		require.NoError(t, err)
		assert.Len(t, cart.Items, 1)
		assert.Contains(t, cart.Items, "good")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, snapshot, created_at, updated_at`).
			WithArgs(cartID).
			WillReturnError(sql.ErrNoRows)

		cart, err := repo.GetCartByID(ctx, cartID)

		require.Error(t, err)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, cart)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateCart(t *testing.T) {
	repo, mock := setupCartRepoTest(t)
	ctx := t.Context()

	cart := &models.Cart{
		ID: uuid.New(),
		Items: map[string]models.CartEntry{
			"A": {ID: "A", Name: "Item A", UnitPrice: 100, Quantity: 2},
		},
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE carts`).
			WithArgs(snapshotJSON(t, cart.Items), sqlmock.AnyArg(), cart.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateCart(ctx, cart)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - No Rows Updated", func(t *testing.T) {
		mock.ExpectExec(`UPDATE carts`).
			WithArgs(snapshotJSON(t, cart.Items), sqlmock.AnyArg(), cart.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateCart(ctx, cart)

		require.Error(t, err)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
