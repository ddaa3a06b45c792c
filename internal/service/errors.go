package service

import "errors"

var (
	// ErrInvalidUserID is returned when the user id is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrSourceUnavailable is returned when the pending-booking fan-out fetch
	// fails. Retryable by user action; no partial list is ever returned.
	ErrSourceUnavailable = errors.New("booking source unavailable")

	// ErrUnknownBooking is returned when an operation references a booking
	// absent from the current snapshot.
	ErrUnknownBooking = errors.New("booking not in current snapshot")

	// ErrEmptySelection is returned when an order is requested for a zero
	// total. User error; no network call is made.
	ErrEmptySelection = errors.New("no bookings selected for payment")

	// ErrOrderCreationFailed is returned when the payment service could not
	// issue an order. Transient; the selection survives so the user can retry.
	ErrOrderCreationFailed = errors.New("payment order creation failed")

	// ErrCheckoutInProgress is returned when an order is requested while a
	// checkout is already awaiting the gateway or verifying.
	ErrCheckoutInProgress = errors.New("checkout already in progress")

	// ErrVerificationFailed is returned when the verification endpoint
	// rejects the proof triplet or is unreachable. The payment may or may not
	// have succeeded server-side, so it is surfaced distinctly from
	// ErrOrderCreationFailed.
	ErrVerificationFailed = errors.New("payment verification failed")

	// ErrNoGatewayCallbackExpected is returned when a gateway callback
	// arrives while no checkout is awaiting one.
	ErrNoGatewayCallbackExpected = errors.New("no gateway callback expected")
)
