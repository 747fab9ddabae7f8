// Package mocks provides testify mocks of the service interfaces for
// handler tests.
package mocks

import (
	"context"

	"github.com/emojimart/storefront/internal/models"
	stripeClient "github.com/emojimart/storefront/pkg/stripe"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type CartService struct {
	mock.Mock
}

func (m *CartService) CreateCart(ctx context.Context) (*models.Cart, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) GetCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, cartID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) AddItem(ctx context.Context, cartID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error) {
	args := m.Called(ctx, cartID, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) IncrementItem(ctx context.Context, cartID uuid.UUID, productID string, count int64) (*models.Cart, error) {
	args := m.Called(ctx, cartID, productID, count)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) DecrementItem(ctx context.Context, cartID uuid.UUID, productID string, count int64) (*models.Cart, error) {
	args := m.Called(ctx, cartID, productID, count)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) RemoveItem(ctx context.Context, cartID uuid.UUID, productID string) (*models.Cart, error) {
	args := m.Called(ctx, cartID, productID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) ClearCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, cartID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

type ProductService struct {
	mock.Mock
}

func (m *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductService) ListProducts(ctx context.Context, page, pageSize int) ([]*models.Product, int, error) {
	args := m.Called(ctx, page, pageSize)

	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]*models.Product), args.Int(1), args.Error(2)
}

type CheckoutService struct {
	mock.Mock
}

func (m *CheckoutService) CheckoutCart(ctx context.Context, cartID uuid.UUID) (*models.CheckoutSession, error) {
	args := m.Called(ctx, cartID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CheckoutSession), args.Error(1)
}

func (m *CheckoutService) CheckoutLineItems(ctx context.Context, lineItems []models.CheckoutLineItem) (*models.CheckoutSession, error) {
	args := m.Called(ctx, lineItems)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CheckoutSession), args.Error(1)
}

func (m *CheckoutService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (stripeClient.Event, error) {
	args := m.Called(ctx, payload, signature)

	return args.Get(0).(stripeClient.Event), args.Error(1)
}
