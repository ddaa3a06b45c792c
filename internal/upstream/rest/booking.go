package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"travelpay/internal/upstream"
)

// BookingClient talks to the external booking query service over REST.
type BookingClient struct {
	client
}

// NewBookingClient creates a BookingClient for the given base URL.
func NewBookingClient(baseURL string, timeout time.Duration) *BookingClient {
	return &BookingClient{client: client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}}
}

// ListHotelBookings returns the user's hotel bookings, all statuses included.
func (c *BookingClient) ListHotelBookings(ctx context.Context, userID string) ([]upstream.HotelBooking, error) {
	var bookings []upstream.HotelBooking
	if err := c.getJSON(ctx, fmt.Sprintf("/hotels/bookings/user/%s", userID), &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListCabBookings returns the user's cab bookings, all statuses included.
func (c *BookingClient) ListCabBookings(ctx context.Context, userID string) ([]upstream.CabBooking, error) {
	var bookings []upstream.CabBooking
	if err := c.getJSON(ctx, fmt.Sprintf("/cabs/bookings/user/%s", userID), &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListActivityBookings returns the user's activity bookings, all statuses
// included.
func (c *BookingClient) ListActivityBookings(ctx context.Context, userID string) ([]upstream.ActivityBooking, error) {
	var bookings []upstream.ActivityBooking
	if err := c.getJSON(ctx, fmt.Sprintf("/activities/bookings/user/%s", userID), &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// Ensure BookingClient implements the upstream contract.
var _ upstream.BookingService = (*BookingClient)(nil)
