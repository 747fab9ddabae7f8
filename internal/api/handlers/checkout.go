package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/emojimart/storefront/internal/api/middleware"
	appErrors "github.com/emojimart/storefront/internal/errors"
	"github.com/emojimart/storefront/internal/metrics"
	"github.com/emojimart/storefront/internal/models"
	service "github.com/emojimart/storefront/internal/services"
	"github.com/emojimart/storefront/internal/utils"
	"github.com/emojimart/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

const maxWebhookPayload = 65536

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	validator       *validator.Validate
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		validator:       validator.New(),
	}
}

// Checkout serves the bare POST /checkout endpoint: a raw line-item payload
// in, a session id out. The method is checked before anything else, and the
// success body is the plain {"sessionId": …} shape clients redirect on.
func (h *CheckoutHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			response.Error(w, appErrors.MethodNotAllowedError("Method not allowed"))
			return
		}

		var req models.CheckoutRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		session, err := h.checkoutService.CheckoutLineItems(r.Context(), req.LineItems)
		if err != nil {
			h.failCheckout(w, logger, err)
			return
		}

		metrics.ObserveCheckoutSession("success")
		logger.Info("Checkout session created", "sessionId", session.SessionID)
		response.WriteJson(w, http.StatusOK, session)

	}
}

// CheckoutCart serves POST /api/v1/carts/{id}/checkout, building the
// line items from the stored ledger.
func (h *CheckoutHandler) CheckoutCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		cartID, ok := parseCartID(w, r)
		if !ok {
			return
		}

		session, err := h.checkoutService.CheckoutCart(r.Context(), cartID)
		if err != nil {
			h.failCheckout(w, logger, err)
			return
		}

		metrics.ObserveCheckoutSession("success")
		logger.Info("Checkout session created", "cartId", cartID.String(), "sessionId", session.SessionID)
		response.Success(w, http.StatusOK, session)

	}
}

// HandleWebhook serves the processor's settlement callback. The signature is
// verified before the payload is trusted with anything.
func (h *CheckoutHandler) HandleWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookPayload))
		if err != nil {
			logger.Warn("Failed to read webhook payload", "error", err.Error())
			response.Error(w, appErrors.BadRequestError("Failed to read request body"))
			return
		}

		signature := r.Header.Get("Stripe-Signature")
		if signature == "" {
			response.Error(w, appErrors.BadRequestError("Missing Stripe-Signature header"))
			return
		}

		event, err := h.checkoutService.ProcessWebhook(r.Context(), payload, signature)
		if err != nil {
			logger.Error("Webhook processing failed", "error", err.Error())
			response.Error(w, err)
			return
		}

		logger.Info("Webhook processed", "eventType", string(event.Type))
		response.Success(w, http.StatusOK, map[string]string{"received": "true"})

	}
}

// failCheckout logs the underlying cause for operators; the client only ever
// sees the structured error, never processor internals.
func (h *CheckoutHandler) failCheckout(w http.ResponseWriter, logger *slog.Logger, err error) {
	metrics.ObserveCheckoutSession("error")
	logger.Error("Checkout failed", "error", err.Error(), "cause", causeOf(err))
	response.Error(w, err)
}

func causeOf(err error) string {
	if appErr, ok := appErrors.IsAppError(err); ok && appErr.Err != nil {
		return appErr.Err.Error()
	}

	return ""
}
