package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"travelpay/internal/domain"
	"travelpay/internal/service"
)

// BookingHandler handles HTTP requests for pending bookings.
type BookingHandler struct {
	checkoutService *service.CheckoutService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(checkoutService *service.CheckoutService) *BookingHandler {
	return &BookingHandler{checkoutService: checkoutService}
}

// PendingBookingResponse is one payable reservation with its selection flag.
type PendingBookingResponse struct {
	ID           string  `json:"id"`
	ResourceType string  `json:"resource_type"`
	DisplayName  string  `json:"display_name"`
	Details      string  `json:"details"`
	Amount       float64 `json:"amount"`
	Selected     bool    `json:"selected"`
}

// PendingBookingsResponse is the refreshed snapshot with the running total.
type PendingBookingsResponse struct {
	Bookings []PendingBookingResponse `json:"bookings"`
	Total    float64                  `json:"total"`
	State    string                   `json:"state"`
}

// GetPending handles GET /v1/bookings/pending/:userId
func (h *BookingHandler) GetPending(c *gin.Context) {
	userID := c.Param("userId")

	snapshot, err := h.checkoutService.RefreshPending(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, h.toResponse(userID, snapshot))
}

func (h *BookingHandler) toResponse(userID string, snapshot []domain.PendingBooking) PendingBookingsResponse {
	bookings := make([]PendingBookingResponse, 0, len(snapshot))
	for _, b := range snapshot {
		bookings = append(bookings, PendingBookingResponse{
			ID:           b.ID,
			ResourceType: string(b.ResourceType),
			DisplayName:  b.DisplayName,
			Details:      b.Details,
			Amount:       b.Amount,
			Selected:     h.checkoutService.IsSelected(userID, b.ID, b.ResourceType),
		})
	}

	return PendingBookingsResponse{
		Bookings: bookings,
		Total:    h.checkoutService.Total(userID),
		State:    string(h.checkoutService.CurrentState(userID)),
	}
}
