package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"travelpay/internal/domain"
	"travelpay/internal/upstream"
)

// BookingSourceService normalizes heterogeneous booking records from the
// external booking service into one uniform shape. It is a pure read: any of
// the three per-type fetches failing fails the whole fetch, because a partial
// list would understate what the user owes.
type BookingSourceService struct {
	bookings upstream.BookingService
}

// NewBookingSourceService creates a new BookingSourceService.
func NewBookingSourceService(bookings upstream.BookingService) *BookingSourceService {
	return &BookingSourceService{bookings: bookings}
}

// FetchPending returns the user's pending bookings across all resource types.
// The three sub-fetches run concurrently and join before returning.
func (s *BookingSourceService) FetchPending(ctx context.Context, userID string) ([]domain.PendingBooking, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	var (
		hotels     []upstream.HotelBooking
		cabs       []upstream.CabBooking
		activities []upstream.ActivityBooking
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hotels, err = s.bookings.ListHotelBookings(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		cabs, err = s.bookings.ListCabBookings(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		activities, err = s.bookings.ListActivityBookings(ctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	var pending []domain.PendingBooking
	for _, b := range hotels {
		if b.Status != string(domain.BookingStatusPending) {
			continue
		}
		pending = append(pending, normalizeHotel(b))
	}
	for _, b := range cabs {
		if b.Status != string(domain.BookingStatusPending) {
			continue
		}
		pending = append(pending, normalizeCab(b))
	}
	for _, b := range activities {
		if b.Status != string(domain.BookingStatusPending) {
			continue
		}
		pending = append(pending, normalizeActivity(b))
	}

	// Stable display order regardless of which sub-fetch finished first.
	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].ResourceType != pending[j].ResourceType {
			return pending[i].ResourceType < pending[j].ResourceType
		}
		return pending[i].ID < pending[j].ID
	})

	return pending, nil
}

func normalizeHotel(b upstream.HotelBooking) domain.PendingBooking {
	name := b.HotelName
	if name == "" {
		name = "Hotel"
	}
	nights := b.NumberOfNights
	if nights < 1 {
		nights = 1
	}
	return domain.PendingBooking{
		ID:           b.ID,
		ResourceType: domain.ResourceHotel,
		DisplayName:  name,
		Details:      fmt.Sprintf("%d night(s), %d guest(s)", nights, b.NumberOfGuests),
		Amount:       b.TotalPrice,
		Status:       domain.BookingStatusPending,
	}
}

func normalizeCab(b upstream.CabBooking) domain.PendingBooking {
	name := b.VehicleName
	if name == "" {
		name = "Cab"
	}
	return domain.PendingBooking{
		ID:           b.ID,
		ResourceType: domain.ResourceCab,
		DisplayName:  name,
		Details:      fmt.Sprintf("%s to %s", b.PickupLocation, b.DropLocation),
		Amount:       b.EstimatedFare,
		Status:       domain.BookingStatusPending,
	}
}

func normalizeActivity(b upstream.ActivityBooking) domain.PendingBooking {
	name := b.ActivityName
	if name == "" {
		name = "Activity"
	}
	date := b.BookingDate
	if parsed, err := time.Parse(time.RFC3339, b.BookingDate); err == nil {
		date = parsed.Format("2006-01-02")
	}
	return domain.PendingBooking{
		ID:           b.ID,
		ResourceType: domain.ResourceActivity,
		DisplayName:  name,
		Details:      fmt.Sprintf("%d participant(s) on %s", b.NumberOfParticipants, date),
		Amount:       b.TotalPrice,
		Status:       domain.BookingStatusPending,
	}
}
