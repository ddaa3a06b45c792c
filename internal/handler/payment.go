package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"travelpay/internal/domain"
	"travelpay/internal/repository"
)

// PaymentHandler handles HTTP requests for payment attempt history.
type PaymentHandler struct {
	records repository.PaymentRecordRepository
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(records repository.PaymentRecordRepository) *PaymentHandler {
	return &PaymentHandler{records: records}
}

// PaymentRecordResponse is one recorded payment attempt.
type PaymentRecordResponse struct {
	ID                 string   `json:"id"`
	OrderID            string   `json:"order_id"`
	PaymentID          string   `json:"payment_id,omitempty"`
	Amount             float64  `json:"amount"`
	Currency           string   `json:"currency"`
	Status             string   `json:"status"`
	HotelBookingIDs    []string `json:"hotel_booking_ids,omitempty"`
	CabBookingIDs      []string `json:"cab_booking_ids,omitempty"`
	ActivityBookingIDs []string `json:"activity_booking_ids,omitempty"`
	CreatedAt          string   `json:"created_at"`
	PaidAt             string   `json:"paid_at,omitempty"`
}

// ListForUser handles GET /v1/payments/user/:userId
func (h *PaymentHandler) ListForUser(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "user id is required"})
		return
	}

	records, err := h.records.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]PaymentRecordResponse, 0, len(records))
	for _, r := range records {
		response = append(response, toRecordResponse(r))
	}

	respondJSON(c, http.StatusOK, response)
}

func toRecordResponse(r *domain.PaymentRecord) PaymentRecordResponse {
	resp := PaymentRecordResponse{
		ID:                 r.ID,
		OrderID:            r.OrderID,
		PaymentID:          r.PaymentID,
		Amount:             r.Amount,
		Currency:           r.Currency,
		Status:             string(r.Status),
		HotelBookingIDs:    r.HotelBookingIDs,
		CabBookingIDs:      r.CabBookingIDs,
		ActivityBookingIDs: r.ActivityBookingIDs,
		CreatedAt:          r.CreatedAt.Format(time.RFC3339),
	}
	if r.PaidAt != nil {
		resp.PaidAt = r.PaidAt.Format(time.RFC3339)
	}
	return resp
}
