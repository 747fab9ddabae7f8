package handlers

import (
	"context"
	"net/http"
	"sort"

	"github.com/emojimart/storefront/internal/api/middleware"
	"github.com/emojimart/storefront/internal/models"
	"github.com/emojimart/storefront/internal/pricing"
	service "github.com/emojimart/storefront/internal/services"
	"github.com/emojimart/storefront/internal/utils"
	"github.com/emojimart/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(service service.CartService) *CartHandler {
	return &CartHandler{
		cartService: service,
		validator:   validator.New(),
	}
}

func (h *CartHandler) CreateCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		cart, err := h.cartService.CreateCart(r.Context())
		if err != nil {
			logger.Error("Cart creation failed", "error", err.Error())
			response.Error(w, err)
			return
		}

		logger.Info("Cart created", "cartId", cart.ID.String())
		response.Success(w, http.StatusCreated, toCartView(cart))

	}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		cartID, ok := parseCartID(w, r)
		if !ok {
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), cartID)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, toCartView(cart))

	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		cartID, ok := parseCartID(w, r)
		if !ok {
			return
		}

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		cart, err := h.cartService.AddItem(r.Context(), cartID, &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, toCartView(cart))

	}
}

func (h *CartHandler) IncrementItem() http.HandlerFunc {
	return h.quantityOp(h.cartService.IncrementItem)
}

func (h *CartHandler) DecrementItem() http.HandlerFunc {
	return h.quantityOp(h.cartService.DecrementItem)
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		cartID, ok := parseCartID(w, r)
		if !ok {
			return
		}

		cart, err := h.cartService.RemoveItem(r.Context(), cartID, r.PathValue("productID"))
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, toCartView(cart))

	}
}

func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		cartID, ok := parseCartID(w, r)
		if !ok {
			return
		}

		cart, err := h.cartService.ClearCart(r.Context(), cartID)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, toCartView(cart))

	}
}

// quantityOp shares the increment/decrement plumbing: the count rides in an
// optional body and defaults to one.
func (h *CartHandler) quantityOp(op func(ctx context.Context, cartID uuid.UUID, productID string, count int64) (*models.Cart, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		cartID, ok := parseCartID(w, r)
		if !ok {
			return
		}

		count := int64(1)

		if r.ContentLength > 0 {
			var req models.QuantityRequest
			if !utils.ParseAndValidate(r, w, &req, h.validator) {
				return
			}

			if req.Count > 0 {
				count = req.Count
			}
		}

		cart, err := op(r.Context(), cartID, r.PathValue("productID"), count)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, toCartView(cart))

	}
}

// toCartView projects the cart for rendering: per-line totals, item count
// and grand total come from the pricing calculator, never stored state.
func toCartView(cart *models.Cart) models.CartView {
	items := make([]models.CartLineView, 0, len(cart.Items))

	for _, entry := range cart.Items {
		items = append(items, models.CartLineView{
			CartEntry: entry,
			LineTotal: pricing.LineTotal(entry),
		})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	return models.CartView{
		ID:        cart.ID,
		Items:     items,
		ItemCount: pricing.ItemCount(cart.Items),
		Subtotal:  pricing.GrandTotal(cart.Items),
		UpdatedAt: cart.UpdatedAt,
	}
}
