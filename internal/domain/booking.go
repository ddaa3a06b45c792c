package domain

// ResourceType is the category of bookable item a reservation belongs to.
type ResourceType string

const (
	ResourceHotel    ResourceType = "HOTEL"
	ResourceCab      ResourceType = "CAB"
	ResourceActivity ResourceType = "ACTIVITY"
)

// ResourceTypes lists every supported resource type. New types require an
// adapter extension.
var ResourceTypes = []ResourceType{ResourceHotel, ResourceCab, ResourceActivity}

// Valid reports whether the resource type is one of the supported categories.
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceHotel, ResourceCab, ResourceActivity:
		return true
	}
	return false
}

// BookingStatus represents the payment status of a reservation.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// PendingBooking is a normalized view of one payable reservation. Instances
// are immutable snapshots: they are never mutated in place and are superseded
// wholesale by a fresh fetch after a successful payment.
type PendingBooking struct {
	ID           string
	ResourceType ResourceType
	DisplayName  string
	Details      string
	Amount       float64
	Status       BookingStatus
}
