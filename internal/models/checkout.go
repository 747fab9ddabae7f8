package models

// CheckoutLineItem is a value copy of a CartEntry, detached from the cart so
// a mutation after submit cannot race the in-flight request.
type CheckoutLineItem struct {
	Name      string `json:"name"      validate:"required"`
	UnitPrice int64  `json:"unitPrice" validate:"required,gt=0"`
	Quantity  int64  `json:"quantity"  validate:"required,gt=0"`
}

type CheckoutRequest struct {
	LineItems []CheckoutLineItem `json:"lineItems" validate:"required,min=1,dive"`
}

// CheckoutSession holds the opaque handle issued by the payment processor.
// It is consumed once by the client redirect and never persisted.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
}
