package domain

import "time"

// PaymentRecordStatus represents the current status of a recorded payment
// attempt.
type PaymentRecordStatus string

const (
	PaymentRecordPending   PaymentRecordStatus = "PENDING"
	PaymentRecordSuccess   PaymentRecordStatus = "SUCCESS"
	PaymentRecordFailed    PaymentRecordStatus = "FAILED"
	PaymentRecordCancelled PaymentRecordStatus = "CANCELLED"
)

// PaymentRecord is the history row written for each checkout attempt. It is
// display-only bookkeeping: the checkout flow never reads it back, so the
// external booking source remains the sole authority on what is unpaid.
type PaymentRecord struct {
	ID                 string
	UserID             string
	OrderID            string
	PaymentID          string
	Amount             float64
	Currency           string
	Status             PaymentRecordStatus
	HotelBookingIDs    []string
	CabBookingIDs      []string
	ActivityBookingIDs []string
	CreatedAt          time.Time
	PaidAt             *time.Time
}
