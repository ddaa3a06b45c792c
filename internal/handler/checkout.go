package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"travelpay/internal/domain"
	"travelpay/internal/service"
)

// CheckoutHandler handles HTTP requests for the checkout flow.
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// OrderResponse carries the order fields the storefront hands to the checkout
// widget.
type OrderResponse struct {
	OrderID    string  `json:"order_id"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	GatewayKey string  `json:"gateway_key"`
}

// CallbackRequest is the gateway's completion callback payload: the signed
// proof triplet, relayed verbatim.
type CallbackRequest struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

// FailureRequest is the gateway's failure callback payload.
type FailureRequest struct {
	Reason string `json:"reason"`
}

// StateResponse is the checkout state for rendering.
type StateResponse struct {
	State string `json:"state"`
}

// CreateOrder handles POST /v1/checkout/:userId/order
func (h *CheckoutHandler) CreateOrder(c *gin.Context) {
	userID := c.Param("userId")

	order, err := h.checkoutService.CreateOrder(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, OrderResponse{
		OrderID:    order.OrderID,
		Amount:     order.Amount,
		Currency:   order.Currency,
		GatewayKey: order.GatewayKey,
	})
}

// Callback handles POST /v1/checkout/:userId/callback
func (h *CheckoutHandler) Callback(c *gin.Context) {
	userID := c.Param("userId")

	var req CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "order_id, payment_id and signature are required"})
		return
	}

	state, err := h.checkoutService.HandleGatewayCallback(c.Request.Context(), userID, domain.PaymentProof{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, StateResponse{State: string(state)})
}

// Failure handles POST /v1/checkout/:userId/failure
func (h *CheckoutHandler) Failure(c *gin.Context) {
	userID := c.Param("userId")

	var req FailureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	state, err := h.checkoutService.HandleGatewayFailure(c.Request.Context(), userID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, StateResponse{State: string(state)})
}

// Cancel handles POST /v1/checkout/:userId/cancel
func (h *CheckoutHandler) Cancel(c *gin.Context) {
	userID := c.Param("userId")

	state, err := h.checkoutService.Cancel(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, StateResponse{State: string(state)})
}

// GetState handles GET /v1/checkout/:userId/state
func (h *CheckoutHandler) GetState(c *gin.Context) {
	userID := c.Param("userId")

	respondJSON(c, http.StatusOK, StateResponse{
		State: string(h.checkoutService.CurrentState(userID)),
	})
}
