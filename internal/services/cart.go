package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/emojimart/storefront/internal/cache"
	appErrors "github.com/emojimart/storefront/internal/errors"
	"github.com/emojimart/storefront/internal/ledger"
	"github.com/emojimart/storefront/internal/models"
	repository "github.com/emojimart/storefront/internal/repositories"
	"github.com/google/uuid"
)

type CartService interface {
	CreateCart(ctx context.Context) (*models.Cart, error)
	GetCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, cartID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error)
	IncrementItem(ctx context.Context, cartID uuid.UUID, productID string, count int64) (*models.Cart, error)
	DecrementItem(ctx context.Context, cartID uuid.UUID, productID string, count int64) (*models.Cart, error)
	RemoveItem(ctx context.Context, cartID uuid.UUID, productID string) (*models.Cart, error)
	ClearCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error)
}

type cartService struct {
	repo        repository.CartRepository
	products    repository.ProductRepository
	cache       cache.Cache
	snapshotTTL time.Duration
}

func NewCartService(repo repository.CartRepository, products repository.ProductRepository, cache cache.Cache, snapshotTTL time.Duration) CartService {
	return &cartService{
		repo:        repo,
		products:    products,
		cache:       cache,
		snapshotTTL: snapshotTTL,
	}
}

// CreateCart implements CartService.
func (s *cartService) CreateCart(ctx context.Context) (*models.Cart, error) {

	cart := &models.Cart{
		ID:        uuid.New(),
		Items:     make(map[string]models.CartEntry),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.repo.CreateCart(ctx, cart); err != nil {
		return nil, appErrors.DatabaseError("Failed to create cart").WithError(err)
	}

	s.mirror(ctx, cart)

	return cart, nil
}

// GetCart implements CartService.
func (s *cartService) GetCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	return s.loadCart(ctx, cartID)
}

// AddItem implements CartService. The unit price is resolved from the
// catalog here, never taken from the client.
func (s *cartService) AddItem(ctx context.Context, cartID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error) {

	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ValidationError(fmt.Sprintf("Product %q has no resolvable price", req.ProductID))
		}

		return nil, appErrors.DatabaseError("Failed to resolve product").WithError(err)
	}

	count := req.Count
	if count == 0 {
		count = 1
	}

	if err := ledger.Add(cart, product, count); err != nil {
		return nil, err
	}

	return cart, s.persist(ctx, cart)
}

// IncrementItem implements CartService.
func (s *cartService) IncrementItem(ctx context.Context, cartID uuid.UUID, productID string, count int64) (*models.Cart, error) {

	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	if count == 0 {
		count = 1
	}

	if err := ledger.Increment(cart, productID, count); err != nil {
		return nil, err
	}

	return cart, s.persist(ctx, cart)
}

// DecrementItem implements CartService. Decrementing the last unit removes
// the line, per the ledger's policy.
func (s *cartService) DecrementItem(ctx context.Context, cartID uuid.UUID, productID string, count int64) (*models.Cart, error) {

	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	if count == 0 {
		count = 1
	}

	if err := ledger.Decrement(cart, productID, count); err != nil {
		return nil, err
	}

	return cart, s.persist(ctx, cart)
}

// RemoveItem implements CartService. Removing an absent item succeeds; the
// operation is idempotent by design of the ledger.
func (s *cartService) RemoveItem(ctx context.Context, cartID uuid.UUID, productID string) (*models.Cart, error) {

	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	ledger.Remove(cart, productID)

	return cart, s.persist(ctx, cart)
}

// ClearCart implements CartService.
func (s *cartService) ClearCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {

	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	ledger.Clear(cart)

	return cart, s.persist(ctx, cart)
}

// loadCart reads through the snapshot mirror. Any cache trouble is logged
// and ignored; the repository is the source of truth.
func (s *cartService) loadCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {

	cached := &models.Cart{}

	found, err := s.cache.Get(ctx, cacheKey(cartID), cached)
	if err != nil {
		slog.Warn("Cart snapshot mirror read failed", slog.String("cartId", cartID.String()), slog.String("error", err.Error()))
	}

	if found && cached.Items != nil {
		return cached, nil
	}

	cart, err := s.repo.GetCartByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Cart not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to load cart").WithError(err)
	}

	return cart, nil
}

// persist writes the cart through to the repository and mirrors the snapshot
// on success. The mirror write is best-effort.
func (s *cartService) persist(ctx context.Context, cart *models.Cart) error {
	if err := s.repo.UpdateCart(ctx, cart); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NotFoundError("Cart not found").WithError(err)
		}

		return appErrors.DatabaseError("Failed to update cart").WithError(err)
	}

	s.mirror(ctx, cart)

	return nil
}

func (s *cartService) mirror(ctx context.Context, cart *models.Cart) {
	if err := s.cache.Set(ctx, cacheKey(cart.ID), cart, s.snapshotTTL); err != nil {
		slog.Warn("Cart snapshot mirror write failed", slog.String("cartId", cart.ID.String()), slog.String("error", err.Error()))
	}
}

func cacheKey(cartID uuid.UUID) string {
	return "cart:" + cartID.String()
}
