package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"travelpay/internal/domain"
	"travelpay/internal/upstream"
)

// PaymentClient talks to the external payment order and verification service
// over REST.
type PaymentClient struct {
	client
}

// NewPaymentClient creates a PaymentClient for the given base URL.
func NewPaymentClient(baseURL string, timeout time.Duration) *PaymentClient {
	return &PaymentClient{client: client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}}
}

// orderResponse is the payment service's order payload.
type orderResponse struct {
	OrderID    string  `json:"orderId"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	GatewayKey string  `json:"gatewayKey"`
}

// verifyRequest carries the proof triplet, relayed verbatim.
type verifyRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

// CreateOrder asks the payment service for a new order covering the given
// booking ids.
func (c *PaymentClient) CreateOrder(ctx context.Context, userID string, req upstream.OrderRequest) (*domain.PaymentOrder, error) {
	var resp orderResponse
	if err := c.postJSON(ctx, fmt.Sprintf("/payments/create-order/%s", userID), req, &resp); err != nil {
		return nil, err
	}

	return &domain.PaymentOrder{
		OrderID:    resp.OrderID,
		Amount:     resp.Amount,
		Currency:   resp.Currency,
		GatewayKey: resp.GatewayKey,
	}, nil
}

// VerifyPayment submits the gateway proof triplet for server-side
// verification.
func (c *PaymentClient) VerifyPayment(ctx context.Context, proof domain.PaymentProof) error {
	return c.postJSON(ctx, "/payments/verify", verifyRequest{
		OrderID:   proof.OrderID,
		PaymentID: proof.PaymentID,
		Signature: proof.Signature,
	}, nil)
}

// Ensure PaymentClient implements the upstream contract.
var _ upstream.PaymentService = (*PaymentClient)(nil)
