package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/emojimart/storefront/internal/models"
	"github.com/emojimart/storefront/internal/utils"
	"github.com/google/uuid"
)

type CartRepository interface {
	CreateCart(ctx context.Context, cart *models.Cart) error
	GetCartByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	UpdateCart(ctx context.Context, cart *models.Cart) error
}

// SnapshotVersion tags persisted cart snapshots. A snapshot whose version we
// do not recognize restores as an empty cart instead of failing the load.
const SnapshotVersion = 1

type cartSnapshot struct {
	Version int                         `json:"version"`
	Entries map[string]models.CartEntry `json:"entries"`
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

func (r *cartRepository) CreateCart(ctx context.Context, cart *models.Cart) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	snapshotJSON, err := json.Marshal(cartSnapshot{Version: SnapshotVersion, Entries: cart.Items})
	if err != nil {
		return fmt.Errorf("failed to marshal cart snapshot: %w", err)
	}

	query := `
		INSERT INTO carts (id, snapshot, created_at, updated_at)
		VALUES($1, $2, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query, cart.ID, snapshotJSON).Scan(&cart.ID, &cart.CreatedAt, &cart.UpdatedAt)
}

func (r *cartRepository) GetCartByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, snapshot, created_at, updated_at
		FROM carts
		WHERE id = $1
	`

	cart := &models.Cart{}

	var snapshotJSON []byte

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&cart.ID, &snapshotJSON, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	cart.Items = restoreSnapshot(snapshotJSON, id)

	return cart, nil
}

func (r *cartRepository) UpdateCart(ctx context.Context, cart *models.Cart) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	snapshotJSON, err := json.Marshal(cartSnapshot{Version: SnapshotVersion, Entries: cart.Items})
	if err != nil {
		return fmt.Errorf("failed to marshal cart snapshot: %w", err)
	}

	query := `
		UPDATE carts
		SET snapshot = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.DB.ExecContext(dbCtx, query, snapshotJSON, time.Now(), cart.ID)
	if err != nil {
		return fmt.Errorf("failed to update the cart: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// restoreSnapshot is deliberately forgiving: a corrupt blob or a version we
// no longer understand yields an empty cart, never an error. The snapshot is
// a best-effort mirror of user intent, not a source-of-truth guarantee.
func restoreSnapshot(snapshotJSON []byte, id uuid.UUID) map[string]models.CartEntry {
	var snapshot cartSnapshot

	if err := json.Unmarshal(snapshotJSON, &snapshot); err != nil {
		slog.Warn("Discarding unreadable cart snapshot",
			slog.String("cartId", id.String()),
			slog.String("error", err.Error()))

		return make(map[string]models.CartEntry)
	}

	if snapshot.Version != SnapshotVersion {
		slog.Warn("Discarding cart snapshot with unknown version",
			slog.String("cartId", id.String()),
			slog.Int("version", snapshot.Version))

		return make(map[string]models.CartEntry)
	}

	if snapshot.Entries == nil {
		return make(map[string]models.CartEntry)
	}

	// drop entries that violate the ledger invariants rather than let a
	// stale snapshot resurrect them
	for key, entry := range snapshot.Entries {
		if entry.Quantity < 1 || entry.UnitPrice <= 0 {
			delete(snapshot.Entries, key)
		}
	}

	return snapshot.Entries
}
