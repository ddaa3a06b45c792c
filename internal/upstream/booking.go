package upstream

import "context"

// HotelBooking is a raw hotel reservation record as returned by the booking
// query service.
type HotelBooking struct {
	ID             string  `json:"id"`
	HotelName      string  `json:"hotelName"`
	NumberOfNights int     `json:"numberOfNights"`
	NumberOfGuests int     `json:"numberOfGuests"`
	TotalPrice     float64 `json:"totalPrice"`
	Status         string  `json:"status"`
}

// CabBooking is a raw cab reservation record as returned by the booking
// query service.
type CabBooking struct {
	ID             string  `json:"id"`
	VehicleName    string  `json:"vehicleName"`
	PickupLocation string  `json:"pickupLocation"`
	DropLocation   string  `json:"dropLocation"`
	EstimatedFare  float64 `json:"estimatedFare"`
	Status         string  `json:"status"`
}

// ActivityBooking is a raw activity reservation record as returned by the
// booking query service.
type ActivityBooking struct {
	ID                   string  `json:"id"`
	ActivityName         string  `json:"activityName"`
	NumberOfParticipants int     `json:"numberOfParticipants"`
	BookingDate          string  `json:"bookingDate"`
	TotalPrice           float64 `json:"totalPrice"`
	Status               string  `json:"status"`
}

// BookingService is the external booking query service, one listing per
// resource type.
type BookingService interface {
	ListHotelBookings(ctx context.Context, userID string) ([]HotelBooking, error)
	ListCabBookings(ctx context.Context, userID string) ([]CabBooking, error)
	ListActivityBookings(ctx context.Context, userID string) ([]ActivityBooking, error)
}
