package tests

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"travelpay/internal/domain"
	"travelpay/internal/service"
	"travelpay/internal/upstream"
)

// ──────────────────────────────────────────────
// 3. CHECKOUT STATE MACHINE
// ──────────────────────────────────────────────

type checkoutEnv struct {
	checkout *service.CheckoutService
	bookings *MockBookingService
	payments *MockPaymentService
	gateway  *MockGateway
	records  *MockPaymentRecordRepository
	locks    *MockLockStore
}

func newCheckoutEnv(t *testing.T) *checkoutEnv {
	t.Helper()

	env := &checkoutEnv{
		bookings: NewMockBookingService(),
		payments: NewMockPaymentService(),
		gateway:  NewMockGateway(),
		records:  NewMockPaymentRecordRepository(),
		locks:    NewMockLockStore(),
	}
	env.bookings.SetBookings(defaultRawBookings())
	env.payments.OrderAmount = 7000

	source := service.NewBookingSourceService(env.bookings)
	env.checkout = service.NewCheckoutService(source, env.payments, env.gateway, env.records, env.locks)

	// Load the snapshot; every pending booking starts selected.
	if _, err := env.checkout.RefreshPending(context.Background(), "user-1"); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	return env
}

func (e *checkoutEnv) proofFor(orderID string) domain.PaymentProof {
	return domain.PaymentProof{OrderID: orderID, PaymentID: "pay-1", Signature: "sig-1"}
}

// markAllPaid simulates the backend confirming the paid bookings, so the
// post-payment refetch finds nothing pending.
func (e *checkoutEnv) markAllPaid() {
	e.bookings.SetBookings(nil, nil, nil)
}

func TestCreateOrder_EmptySelection_NoNetworkCall(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)
	if err := env.checkout.ClearSelection(context.Background(), "user-1"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	_, err := env.checkout.CreateOrder(context.Background(), "user-1")
	if !errors.Is(err, service.ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got: %v", err)
	}

	if got := atomic.LoadInt32(&env.payments.CreateOrderCallCount); got != 0 {
		t.Errorf("expected no payment service call, got %d", got)
	}
	if got := env.checkout.CurrentState("user-1"); got != domain.CheckoutStateIdle {
		t.Errorf("expected IDLE, got %s", got)
	}
}

func TestCreateOrder_Success_AwaitsGateway(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)

	order, err := env.checkout.CreateOrder(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if order.OrderID == "" || order.Amount != 7000 {
		t.Errorf("unexpected order: %+v", order)
	}
	if got := env.checkout.CurrentState("user-1"); got != domain.CheckoutStateAwaiting {
		t.Errorf("expected AWAITING_GATEWAY, got %s", got)
	}

	// The exact selected id partition must be what the order covers.
	req := env.payments.LastOrderRequest
	if len(req.HotelBookingIDs) != 1 || req.HotelBookingIDs[0] != "h1" {
		t.Errorf("unexpected hotel ids in order request: %v", req.HotelBookingIDs)
	}
	if len(req.CabBookingIDs) != 1 || req.CabBookingIDs[0] != "c1" {
		t.Errorf("unexpected cab ids in order request: %v", req.CabBookingIDs)
	}
	if len(req.ActivityBookingIDs) != 1 || req.ActivityBookingIDs[0] != "a1" {
		t.Errorf("unexpected activity ids in order request: %v", req.ActivityBookingIDs)
	}

	// The gateway was handed the order fields.
	if got := atomic.LoadInt32(&env.gateway.OpenCallCount); got != 1 {
		t.Fatalf("expected gateway to be opened once, got %d", got)
	}
	if env.gateway.LastRequest.OrderID != order.OrderID || env.gateway.LastRequest.GatewayKey != order.GatewayKey {
		t.Errorf("unexpected gateway request: %+v", env.gateway.LastRequest)
	}

	if got := env.records.RecordStatus(order.OrderID); got != domain.PaymentRecordPending {
		t.Errorf("expected PENDING record, got %q", got)
	}
	if !env.locks.IsLocked("user-1") {
		t.Error("expected checkout lock to be held")
	}
}

func TestCreateOrder_WhileAwaiting_RejectedWithoutNetworkCall(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)

	if _, err := env.checkout.CreateOrder(context.Background(), "user-1"); err != nil {
		t.Fatalf("first order failed: %v", err)
	}

	_, err := env.checkout.CreateOrder(context.Background(), "user-1")
	if !errors.Is(err, service.ErrCheckoutInProgress) {
		t.Fatalf("expected ErrCheckoutInProgress, got: %v", err)
	}

	if got := atomic.LoadInt32(&env.payments.CreateOrderCallCount); got != 1 {
		t.Errorf("expected the payment service to be contacted once, got %d", got)
	}
}

func TestCreateOrder_UpstreamFailure_SelectionSurvives(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)
	env.payments.CreateOrderError = ErrMockUpstreamDown

	_, err := env.checkout.CreateOrder(context.Background(), "user-1")
	if !errors.Is(err, service.ErrOrderCreationFailed) {
		t.Fatalf("expected ErrOrderCreationFailed, got: %v", err)
	}

	if got := env.checkout.CurrentState("user-1"); got != domain.CheckoutStateIdle {
		t.Errorf("expected IDLE after failed order, got %s", got)
	}
	if got := env.checkout.Total("user-1"); got != 7000 {
		t.Errorf("expected selection to survive with total 7000, got %v", got)
	}
	if env.locks.IsLocked("user-1") {
		t.Error("expected checkout lock to be released")
	}

	// Retry without re-selecting succeeds.
	env.payments.CreateOrderError = nil
	if _, err := env.checkout.CreateOrder(context.Background(), "user-1"); err != nil {
		t.Fatalf("expected retry to succeed, got: %v", err)
	}
}

func TestCallback_Success_ConfirmsAndReconciles(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)

	order, err := env.checkout.CreateOrder(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("order failed: %v", err)
	}

	env.markAllPaid()

	state, err := env.checkout.HandleGatewayCallback(context.Background(), "user-1", env.proofFor(order.OrderID))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if state != domain.CheckoutStateConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", state)
	}

	// The proof triplet was relayed verbatim.
	if env.payments.LastProof != env.proofFor(order.OrderID) {
		t.Errorf("proof triplet was altered: %+v", env.payments.LastProof)
	}

	// Selection and snapshot were re-derived from the source of truth.
	if got := env.checkout.Total("user-1"); got != 0 {
		t.Errorf("expected zero total after confirmation, got %v", got)
	}
	if got := len(env.checkout.PendingBookings("user-1")); got != 0 {
		t.Errorf("expected empty pending snapshot, got %d", got)
	}

	if got := env.records.RecordStatus(order.OrderID); got != domain.PaymentRecordSuccess {
		t.Errorf("expected SUCCESS record, got %q", got)
	}
	if env.locks.IsLocked("user-1") {
		t.Error("expected checkout lock to be released")
	}
}

func TestCallback_Redelivered_AfterConfirmed_NoOp(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)

	order, err := env.checkout.CreateOrder(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("order failed: %v", err)
	}
	env.markAllPaid()

	proof := env.proofFor(order.OrderID)
	if _, err := env.checkout.HandleGatewayCallback(context.Background(), "user-1", proof); err != nil {
		t.Fatalf("first callback failed: %v", err)
	}

	state, err := env.checkout.HandleGatewayCallback(context.Background(), "user-1", proof)
	if err != nil {
		t.Fatalf("expected redelivery to be discarded, got: %v", err)
	}
	if state != domain.CheckoutStateConfirmed {
		t.Errorf("expected CONFIRMED, got %s", state)
	}
	if got := atomic.LoadInt32(&env.payments.VerifyCallCount); got != 1 {
		t.Errorf("expected exactly one verification call, got %d", got)
	}
}

func TestCallback_VerificationFails_IdleWithSelectionIntact(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)
	env.payments.VerifyError = ErrMockRejected

	order, err := env.checkout.CreateOrder(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("order failed: %v", err)
	}

	state, err := env.checkout.HandleGatewayCallback(context.Background(), "user-1", env.proofFor(order.OrderID))
	if !errors.Is(err, service.ErrVerificationFailed) {
		t.Fatalf("expected ErrVerificationFailed, got: %v", err)
	}
	if state != domain.CheckoutStateIdle {
		t.Errorf("expected IDLE, got %s", state)
	}

	// The user must not need to reselect before retrying.
	if got := env.checkout.Total("user-1"); got != 7000 {
		t.Errorf("expected selection intact with total 7000, got %v", got)
	}
	if got := env.records.RecordStatus(order.OrderID); got != domain.PaymentRecordFailed {
		t.Errorf("expected FAILED record, got %q", got)
	}
	if env.locks.IsLocked("user-1") {
		t.Error("expected checkout lock to be released")
	}
}

func TestCallback_UnknownOrder_Rejected(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)

	if _, err := env.checkout.CreateOrder(context.Background(), "user-1"); err != nil {
		t.Fatalf("order failed: %v", err)
	}

	_, err := env.checkout.HandleGatewayCallback(context.Background(), "user-1", env.proofFor("order-unknown"))
	if !errors.Is(err, service.ErrNoGatewayCallbackExpected) {
		t.Fatalf("expected ErrNoGatewayCallbackExpected, got: %v", err)
	}
	if got := atomic.LoadInt32(&env.payments.VerifyCallCount); got != 0 {
		t.Errorf("expected no verification call for unknown order, got %d", got)
	}
}

func TestCallback_WithoutCheckoutInFlight_Rejected(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)

	_, err := env.checkout.HandleGatewayCallback(context.Background(), "user-1", env.proofFor("order-1"))
	if !errors.Is(err, service.ErrNoGatewayCallbackExpected) {
		t.Fatalf("expected ErrNoGatewayCallbackExpected, got: %v", err)
	}
}

func TestCancel_ReturnsToIdle(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)

	order, err := env.checkout.CreateOrder(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("order failed: %v", err)
	}

	state, err := env.checkout.Cancel(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if state != domain.CheckoutStateIdle {
		t.Errorf("expected IDLE, got %s", state)
	}
	if got := env.checkout.Total("user-1"); got != 7000 {
		t.Errorf("expected selection intact, got total %v", got)
	}
	if got := env.records.RecordStatus(order.OrderID); got != domain.PaymentRecordCancelled {
		t.Errorf("expected CANCELLED record, got %q", got)
	}
	if env.locks.IsLocked("user-1") {
		t.Error("expected checkout lock to be released")
	}
}

func TestGatewayFailure_ReturnsToIdle(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)

	order, err := env.checkout.CreateOrder(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("order failed: %v", err)
	}

	state, err := env.checkout.HandleGatewayFailure(context.Background(), "user-1", "card declined")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if state != domain.CheckoutStateIdle {
		t.Errorf("expected IDLE, got %s", state)
	}
	if got := env.records.RecordStatus(order.OrderID); got != domain.PaymentRecordFailed {
		t.Errorf("expected FAILED record, got %q", got)
	}
}

func TestToggleAfterOrderCreation_InvalidatesOrder(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)

	order, err := env.checkout.CreateOrder(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("order failed: %v", err)
	}

	// Changing the selection makes the frozen order stale; it must be
	// discarded, not reused.
	if err := env.checkout.Toggle(context.Background(), "user-1", "c1", domain.ResourceCab); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	if got := env.checkout.CurrentState("user-1"); got != domain.CheckoutStateIdle {
		t.Errorf("expected IDLE after invalidation, got %s", got)
	}
	if got := env.records.RecordStatus(order.OrderID); got != domain.PaymentRecordCancelled {
		t.Errorf("expected CANCELLED record for stale order, got %q", got)
	}

	// A late callback for the discarded order is not verified.
	_, err = env.checkout.HandleGatewayCallback(context.Background(), "user-1", env.proofFor(order.OrderID))
	if !errors.Is(err, service.ErrNoGatewayCallbackExpected) {
		t.Fatalf("expected ErrNoGatewayCallbackExpected, got: %v", err)
	}

	// A fresh order for the new selection succeeds.
	if _, err := env.checkout.CreateOrder(context.Background(), "user-1"); err != nil {
		t.Fatalf("expected new order to succeed, got: %v", err)
	}
	if got := atomic.LoadInt32(&env.payments.CreateOrderCallCount); got != 2 {
		t.Errorf("expected two order creations, got %d", got)
	}
}

func TestToggle_BookingOutsideSnapshot_Rejected(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)

	err := env.checkout.Toggle(context.Background(), "user-1", "ghost", domain.ResourceHotel)
	if !errors.Is(err, service.ErrUnknownBooking) {
		t.Fatalf("expected ErrUnknownBooking, got: %v", err)
	}
}

func TestRefreshPending_DuringVerification_Rejected(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)
	env.payments.VerifyStarted = make(chan struct{})
	env.payments.VerifyRelease = make(chan struct{})

	order, err := env.checkout.CreateOrder(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("order failed: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := env.checkout.HandleGatewayCallback(context.Background(), "user-1", env.proofFor(order.OrderID))
		done <- err
	}()
	<-env.payments.VerifyStarted

	// The upstream list shrinks while the proof is being verified. A refresh
	// now must not prune the selection and discard the in-flight order.
	env.markAllPaid()
	_, refreshErr := env.checkout.RefreshPending(context.Background(), "user-1")
	if !errors.Is(refreshErr, service.ErrCheckoutInProgress) {
		t.Fatalf("expected ErrCheckoutInProgress, got: %v", refreshErr)
	}
	if got := env.checkout.CurrentState("user-1"); got != domain.CheckoutStateVerifying {
		t.Errorf("expected VERIFYING mid-callback, got %s", got)
	}
	if got := env.records.RecordStatus(order.OrderID); got != domain.PaymentRecordPending {
		t.Errorf("expected record to stay PENDING mid-verification, got %q", got)
	}

	close(env.payments.VerifyRelease)
	if err := <-done; err != nil {
		t.Fatalf("callback failed: %v", err)
	}
	if got := env.checkout.CurrentState("user-1"); got != domain.CheckoutStateConfirmed {
		t.Errorf("expected CONFIRMED after verification, got %s", got)
	}
	if got := env.records.RecordStatus(order.OrderID); got != domain.PaymentRecordSuccess {
		t.Errorf("expected SUCCESS record, got %q", got)
	}
}

func TestCreateOrder_AfterConfirmed_StartsFreshCheckout(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)

	order, err := env.checkout.CreateOrder(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("order failed: %v", err)
	}

	// Backend keeps one unpaid cab after the payment settles.
	env.bookings.SetBookings(nil, []upstream.CabBooking{
		{ID: "c9", VehicleName: "SUV", PickupLocation: "Hotel", DropLocation: "Airport", EstimatedFare: 950, Status: "PENDING"},
	}, nil)

	if _, err := env.checkout.HandleGatewayCallback(context.Background(), "user-1", env.proofFor(order.OrderID)); err != nil {
		t.Fatalf("callback failed: %v", err)
	}

	// Reconciliation picked up the remaining cab and selected it.
	if got := env.checkout.Total("user-1"); got != 950 {
		t.Errorf("expected total 950 from reconciled snapshot, got %v", got)
	}

	env.payments.Order = &domain.PaymentOrder{OrderID: "order-2", Amount: 950, Currency: "INR", GatewayKey: "key-test"}
	order2, err := env.checkout.CreateOrder(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected second checkout to start, got: %v", err)
	}
	if order2.OrderID != "order-2" {
		t.Errorf("unexpected second order: %+v", order2)
	}
	if got := env.checkout.CurrentState("user-1"); got != domain.CheckoutStateAwaiting {
		t.Errorf("expected AWAITING_GATEWAY, got %s", got)
	}
}
