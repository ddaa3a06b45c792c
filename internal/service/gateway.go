package service

import "context"

// CheckoutRequest contains the order fields handed to the external checkout
// gateway. GatewayKey is an opaque credential passed through, never
// interpreted.
type CheckoutRequest struct {
	GatewayKey string
	OrderID    string
	Amount     float64
	Currency   string
}

// CheckoutGateway is the interface for the external, opaque checkout widget.
// Open is fire-and-forget: the gateway owns its own UI and network and
// eventually reports back through the checkout callbacks.
type CheckoutGateway interface {
	Open(ctx context.Context, req CheckoutRequest) error
}

// MockCheckoutGateway is a mock implementation of CheckoutGateway.
type MockCheckoutGateway struct{}

// NewMockCheckoutGateway creates a new mock checkout gateway.
func NewMockCheckoutGateway() *MockCheckoutGateway {
	return &MockCheckoutGateway{}
}

// Open simulates handing the order to the hosted widget. Always succeeds;
// the real widget runs in the storefront and reports back over the callback
// endpoint.
func (g *MockCheckoutGateway) Open(ctx context.Context, req CheckoutRequest) error {
	return nil
}
