package service

import (
	"context"

	"github.com/emojimart/storefront/internal/checkout"
	"github.com/emojimart/storefront/internal/config"
	appErrors "github.com/emojimart/storefront/internal/errors"
	"github.com/emojimart/storefront/internal/models"
	stripeClient "github.com/emojimart/storefront/pkg/stripe"
	"github.com/google/uuid"
)

type CheckoutService interface {
	CheckoutCart(ctx context.Context, cartID uuid.UUID) (*models.CheckoutSession, error)
	CheckoutLineItems(ctx context.Context, lineItems []models.CheckoutLineItem) (*models.CheckoutSession, error)
	ProcessWebhook(ctx context.Context, payload []byte, signature string) (stripeClient.Event, error)
}

type checkoutService struct {
	carts   CartService
	builder *checkout.Builder
	stripe  stripeClient.Client
	cfg     config.Stripe
}

func NewCheckoutService(carts CartService, builder *checkout.Builder, stripe stripeClient.Client, cfg config.Stripe) CheckoutService {
	return &checkoutService{
		carts:   carts,
		builder: builder,
		stripe:  stripe,
		cfg:     cfg,
	}
}

// CheckoutCart implements CheckoutService: the trusted path, where line
// items are built from the stored ledger. The cart id rides along as the
// session's client reference so settlement can be tied back to it.
func (s *checkoutService) CheckoutCart(ctx context.Context, cartID uuid.UUID) (*models.CheckoutSession, error) {

	cart, err := s.carts.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	lineItems, err := s.builder.Build(cart.Items)
	if err != nil {
		return nil, err
	}

	return s.createSession(ctx, lineItems, cartID.String())
}

// CheckoutLineItems implements CheckoutService: the untrusted path for
// payloads submitted directly by clients. The builder's gate runs again here
// regardless of what the client claims to have validated.
func (s *checkoutService) CheckoutLineItems(ctx context.Context, lineItems []models.CheckoutLineItem) (*models.CheckoutSession, error) {

	validated, err := s.builder.Sanitize(lineItems)
	if err != nil {
		return nil, err
	}

	return s.createSession(ctx, validated, "")
}

// createSession issues exactly one session-creation call. No retry: the
// upstream call is not idempotent, and a blind retry could mint a second
// billable session.
func (s *checkoutService) createSession(ctx context.Context, lineItems []models.CheckoutLineItem, clientReferenceID string) (*models.CheckoutSession, error) {

	items := make([]stripeClient.LineItem, 0, len(lineItems))
	for _, item := range lineItems {
		items = append(items, stripeClient.LineItem{
			Name:       item.Name,
			UnitAmount: item.UnitPrice,
			Quantity:   item.Quantity,
		})
	}

	sessionID, err := s.stripe.CreateCheckoutSession(ctx, stripeClient.SessionParams{
		Currency:          s.cfg.Currency,
		LineItems:         items,
		SuccessURL:        s.cfg.SuccessURL,
		CancelURL:         s.cfg.CancelURL,
		ClientReferenceID: clientReferenceID,
	})
	if err != nil {
		return nil, appErrors.UpstreamError("Failed to create checkout session").WithError(err)
	}

	return &models.CheckoutSession{SessionID: sessionID}, nil
}

// ProcessWebhook implements CheckoutService. The only event acted on is
// checkout.session.completed, which clears the cart named by the session's
// client reference; everything else is acknowledged and dropped.
func (s *checkoutService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (stripeClient.Event, error) {

	event, err := s.stripe.VerifyWebhookSignature(payload, signature)
	if err != nil {
		return stripeClient.Event{}, appErrors.UpstreamError("Webhook signature verification failed").WithError(err)
	}

	if event.Type != "checkout.session.completed" {
		return event, nil
	}

	session := event.Data.Object

	reference, ok := session["client_reference_id"].(string)
	if !ok || reference == "" {
		// sessions created from raw line-item payloads have no cart to clear
		return event, nil
	}

	cartID, err := uuid.Parse(reference)
	if err != nil {
		return event, appErrors.BadRequestError("Webhook client reference is not a cart id").WithError(err)
	}

	if _, err := s.carts.ClearCart(ctx, cartID); err != nil {
		return event, err
	}

	return event, nil
}
