package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"travelpay/internal/domain"
	"travelpay/internal/service"
)

// SelectionHandler handles HTTP requests for the payment selection.
type SelectionHandler struct {
	checkoutService *service.CheckoutService
}

// NewSelectionHandler creates a new SelectionHandler.
func NewSelectionHandler(checkoutService *service.CheckoutService) *SelectionHandler {
	return &SelectionHandler{checkoutService: checkoutService}
}

// ToggleRequest is the HTTP request body for toggling one booking.
type ToggleRequest struct {
	BookingID    string `json:"booking_id"`
	ResourceType string `json:"resource_type"`
}

// SelectionResponse is the current selection with its total.
type SelectionResponse struct {
	HotelBookingIDs    []string `json:"hotel_booking_ids"`
	CabBookingIDs      []string `json:"cab_booking_ids"`
	ActivityBookingIDs []string `json:"activity_booking_ids"`
	Total              float64  `json:"total"`
}

// GetSelection handles GET /v1/selection/:userId
func (h *SelectionHandler) GetSelection(c *gin.Context) {
	userID := c.Param("userId")
	respondJSON(c, http.StatusOK, h.toResponse(userID))
}

// Toggle handles POST /v1/selection/:userId/toggle
func (h *SelectionHandler) Toggle(c *gin.Context) {
	userID := c.Param("userId")

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.BookingID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "booking_id is required"})
		return
	}

	resourceType := domain.ResourceType(req.ResourceType)
	if !resourceType.Valid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "resource_type must be HOTEL, CAB or ACTIVITY"})
		return
	}

	if err := h.checkoutService.Toggle(c.Request.Context(), userID, req.BookingID, resourceType); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, h.toResponse(userID))
}

// SelectAll handles POST /v1/selection/:userId/all
func (h *SelectionHandler) SelectAll(c *gin.Context) {
	userID := c.Param("userId")

	if err := h.checkoutService.SelectAll(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, h.toResponse(userID))
}

// Clear handles DELETE /v1/selection/:userId
func (h *SelectionHandler) Clear(c *gin.Context) {
	userID := c.Param("userId")

	if err := h.checkoutService.ClearSelection(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, h.toResponse(userID))
}

func (h *SelectionHandler) toResponse(userID string) SelectionResponse {
	view := h.checkoutService.Selection(userID)
	return SelectionResponse{
		HotelBookingIDs:    view.HotelBookingIDs,
		CabBookingIDs:      view.CabBookingIDs,
		ActivityBookingIDs: view.ActivityBookingIDs,
		Total:              view.Total,
	}
}
