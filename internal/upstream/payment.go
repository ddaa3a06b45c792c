package upstream

import (
	"context"

	"travelpay/internal/domain"
)

// OrderRequest carries the exact booking ids, partitioned by resource type,
// that a payment order should cover.
type OrderRequest struct {
	HotelBookingIDs    []string `json:"hotelBookingIds"`
	CabBookingIDs      []string `json:"cabBookingIds"`
	ActivityBookingIDs []string `json:"activityBookingIds"`
}

// PaymentService is the external payment service: it issues orders and
// verifies gateway proof triplets. The triplet is relayed verbatim; signature
// validation is the service's responsibility.
type PaymentService interface {
	CreateOrder(ctx context.Context, userID string, req OrderRequest) (*domain.PaymentOrder, error)
	VerifyPayment(ctx context.Context, proof domain.PaymentProof) error
}
