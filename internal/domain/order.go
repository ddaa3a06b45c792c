package domain

// PaymentOrder is a payment-service-issued intent to charge a fixed amount.
// The amount is frozen at creation time and never recomputed; a stale order
// is discarded, not reused.
type PaymentOrder struct {
	OrderID    string
	Amount     float64
	Currency   string
	GatewayKey string
}

// PaymentProof is the gateway's signed proof triplet, relayed verbatim to the
// verification endpoint. The signature is never validated locally.
type PaymentProof struct {
	OrderID   string
	PaymentID string
	Signature string
}

// CheckoutState is the phase of the single in-flight checkout for a session.
type CheckoutState string

const (
	CheckoutStateIdle      CheckoutState = "IDLE"
	CheckoutStateAwaiting  CheckoutState = "AWAITING_GATEWAY"
	CheckoutStateVerifying CheckoutState = "VERIFYING"
	CheckoutStateConfirmed CheckoutState = "CONFIRMED"
)
