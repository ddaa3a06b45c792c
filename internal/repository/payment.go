package repository

import (
	"context"

	"travelpay/internal/domain"
)

// PaymentRecordRepository defines the persistence operations for payment
// attempt history. The checkout flow only writes here; nothing in the flow
// reads these rows back.
type PaymentRecordRepository interface {
	// Create persists a new payment record.
	Create(ctx context.Context, record *domain.PaymentRecord) error

	// GetByOrderID retrieves a payment record by its order id.
	GetByOrderID(ctx context.Context, orderID string) (*domain.PaymentRecord, error)

	// MarkPaid sets the record to SUCCESS with the gateway payment id.
	MarkPaid(ctx context.Context, orderID, paymentID string) error

	// UpdateStatus updates the status of a payment record.
	UpdateStatus(ctx context.Context, orderID string, status domain.PaymentRecordStatus) error

	// ListByUser returns all payment records for a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.PaymentRecord, error)
}
