package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"travelpay/internal/domain"
	"travelpay/internal/redis"
	"travelpay/internal/repository"
	"travelpay/internal/upstream"
)

// checkoutLockTTL bounds the cross-instance single-flight lock. The gateway
// callback itself is user-paced and has no timeout; the in-process state
// machine keeps guarding after the lock expires.
const checkoutLockTTL = 15 * time.Minute

// CheckoutService owns the payment-aggregation flow: per-user session state,
// order negotiation with the payment service, the checkout state machine and
// post-confirmation reconciliation.
type CheckoutService struct {
	source   *BookingSourceService
	payments upstream.PaymentService
	gateway  CheckoutGateway
	records  repository.PaymentRecordRepository
	locks    redis.LockStoreInterface

	mu       sync.Mutex
	sessions map[string]*session
}

// NewCheckoutService creates a new CheckoutService. records and locks may be
// nil; history rows and the distributed lock are then skipped.
func NewCheckoutService(
	source *BookingSourceService,
	payments upstream.PaymentService,
	gateway CheckoutGateway,
	records repository.PaymentRecordRepository,
	locks redis.LockStoreInterface,
) *CheckoutService {
	return &CheckoutService{
		source:   source,
		payments: payments,
		gateway:  gateway,
		records:  records,
		locks:    locks,
		sessions: make(map[string]*session),
	}
}

// orderUnit pairs a payment order with the exact booking ids it covers.
// The two are created, kept and discarded together: a mismatched pair would
// let verification confirm bookings that were never priced into the order.
type orderUnit struct {
	order       domain.PaymentOrder
	hotelIDs    []string
	cabIDs      []string
	activityIDs []string
}

// session is the per-user checkout context. All fields are guarded by mu.
type session struct {
	mu sync.Mutex

	userID    string
	snapshot  []domain.PendingBooking
	selection *domain.SelectionSet
	state     domain.CheckoutState
	pending   *orderUnit

	// lastConfirmedOrderID lets redelivered callbacks for an already
	// confirmed order be discarded without a state change.
	lastConfirmedOrderID string

	fetched bool
}

func (s *CheckoutService) session(userID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		sess = &session{
			userID:    userID,
			selection: domain.NewSelectionSet(),
			state:     domain.CheckoutStateIdle,
		}
		s.sessions[userID] = sess
	}
	return sess
}

// RefreshPending fetches a fresh pending-booking snapshot for the user. The
// selection is pruned against the new snapshot; on the first fetch of a
// session every pending booking starts selected, matching the storefront
// behavior. If an order was pending and the pruning changed the selection,
// the stale order is discarded. While a verification is in flight the
// refresh is rejected with ErrCheckoutInProgress.
func (s *CheckoutService) RefreshPending(ctx context.Context, userID string) ([]domain.PendingBooking, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	snapshot, err := s.source.FetchPending(ctx, userID)
	if err != nil {
		return nil, err
	}

	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	// Pruning now could discard the order the verification continuation is
	// about to confirm.
	if sess.state == domain.CheckoutStateVerifying {
		return nil, ErrCheckoutInProgress
	}

	before := selectionFingerprint(sess.selection)
	sess.snapshot = snapshot
	if !sess.fetched {
		sess.selection.SelectAll(snapshot)
		sess.fetched = true
	} else {
		sess.selection.Prune(snapshot)
	}

	if sess.pending != nil && selectionFingerprint(sess.selection) != before {
		s.discardOrderLocked(ctx, sess, domain.PaymentRecordCancelled)
	}

	return copySnapshot(snapshot), nil
}

// PendingBookings returns the current snapshot without refetching.
func (s *CheckoutService) PendingBookings(userID string) []domain.PendingBooking {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return copySnapshot(sess.snapshot)
}

// Toggle flips the selection of one booking in the current snapshot. Any
// selection mutation after order creation invalidates the pending order.
func (s *CheckoutService) Toggle(ctx context.Context, userID, bookingID string, resourceType domain.ResourceType) error {
	return s.mutateSelection(ctx, userID, func(sess *session) error {
		booking, ok := findBooking(sess.snapshot, resourceType, bookingID)
		if !ok {
			return fmt.Errorf("%w: %s %s", ErrUnknownBooking, resourceType, bookingID)
		}
		sess.selection.Toggle(booking)
		return nil
	})
}

// SelectAll selects every booking in the current snapshot.
func (s *CheckoutService) SelectAll(ctx context.Context, userID string) error {
	return s.mutateSelection(ctx, userID, func(sess *session) error {
		sess.selection.SelectAll(sess.snapshot)
		return nil
	})
}

// ClearSelection empties the selection.
func (s *CheckoutService) ClearSelection(ctx context.Context, userID string) error {
	return s.mutateSelection(ctx, userID, func(sess *session) error {
		sess.selection.Clear()
		return nil
	})
}

func (s *CheckoutService) mutateSelection(ctx context.Context, userID string, mutate func(*session) error) error {
	if userID == "" {
		return ErrInvalidUserID
	}

	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	// The proof triplet is already on its way to verification; changing the
	// selection now could not be honored.
	if sess.state == domain.CheckoutStateVerifying {
		return ErrCheckoutInProgress
	}

	before := selectionFingerprint(sess.selection)
	if err := mutate(sess); err != nil {
		return err
	}

	if sess.pending != nil && selectionFingerprint(sess.selection) != before {
		s.discardOrderLocked(ctx, sess, domain.PaymentRecordCancelled)
	}

	return nil
}

// IsSelected reports whether the booking is currently selected.
func (s *CheckoutService) IsSelected(userID, bookingID string, resourceType domain.ResourceType) bool {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	booking, ok := findBooking(sess.snapshot, resourceType, bookingID)
	if !ok {
		return false
	}
	return sess.selection.IsSelected(booking)
}

// SelectionView is a read-only view of the current selection.
type SelectionView struct {
	HotelBookingIDs    []string
	CabBookingIDs      []string
	ActivityBookingIDs []string
	Total              float64
}

// Selection returns the selected ids per resource type and the current total.
func (s *CheckoutService) Selection(userID string) SelectionView {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	return SelectionView{
		HotelBookingIDs:    sess.selection.HotelIDs(),
		CabBookingIDs:      sess.selection.CabIDs(),
		ActivityBookingIDs: sess.selection.ActivityIDs(),
		Total:              sess.selection.Total(sess.snapshot),
	}
}

// Total returns the sum of amounts over the selected bookings, recomputed
// against the current snapshot.
func (s *CheckoutService) Total(userID string) float64 {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.selection.Total(sess.snapshot)
}

// CurrentState returns the checkout state for rendering.
func (s *CheckoutService) CurrentState(userID string) domain.CheckoutState {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state
}

// CreateOrder requests a payment order covering the current selection and
// hands it to the checkout gateway. Preconditions: no checkout in flight and
// a non-zero total. On upstream failure the selection is left untouched so
// the user can retry without re-selecting.
func (s *CheckoutService) CreateOrder(ctx context.Context, userID string) (*domain.PaymentOrder, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.state == domain.CheckoutStateAwaiting || sess.state == domain.CheckoutStateVerifying {
		return nil, ErrCheckoutInProgress
	}

	total := sess.selection.Total(sess.snapshot)
	if total <= 0 {
		return nil, ErrEmptySelection
	}

	if s.locks != nil {
		ok, err := s.locks.AcquireCheckoutLock(ctx, userID, checkoutLockTTL)
		if err == nil && !ok {
			return nil, ErrCheckoutInProgress
		}
		// A lock-store error falls through: the in-process state machine
		// still guards single-flight for this instance.
	}

	req := upstream.OrderRequest{
		HotelBookingIDs:    sess.selection.HotelIDs(),
		CabBookingIDs:      sess.selection.CabIDs(),
		ActivityBookingIDs: sess.selection.ActivityIDs(),
	}

	order, err := s.payments.CreateOrder(ctx, userID, req)
	if err != nil {
		s.releaseLock(ctx, userID)
		return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}

	// The server-returned amount is authoritative; a mismatch with the local
	// total points at drift between snapshot and backend pricing.
	if order.Amount != total {
		log.Printf("checkout: order %s amount %.2f differs from selected total %.2f (user %s)",
			order.OrderID, order.Amount, total, userID)
	}

	sess.pending = &orderUnit{
		order:       *order,
		hotelIDs:    req.HotelBookingIDs,
		cabIDs:      req.CabBookingIDs,
		activityIDs: req.ActivityBookingIDs,
	}
	sess.state = domain.CheckoutStateAwaiting

	if s.records != nil {
		record := &domain.PaymentRecord{
			ID:                 uuid.New().String(),
			UserID:             userID,
			OrderID:            order.OrderID,
			Amount:             order.Amount,
			Currency:           order.Currency,
			Status:             domain.PaymentRecordPending,
			HotelBookingIDs:    req.HotelBookingIDs,
			CabBookingIDs:      req.CabBookingIDs,
			ActivityBookingIDs: req.ActivityBookingIDs,
			CreatedAt:          time.Now().UTC(),
		}
		if err := s.records.Create(ctx, record); err != nil {
			log.Printf("checkout: recording order %s failed: %v", order.OrderID, err)
		}
	}

	if s.gateway != nil {
		if err := s.gateway.Open(ctx, CheckoutRequest{
			GatewayKey: order.GatewayKey,
			OrderID:    order.OrderID,
			Amount:     order.Amount,
			Currency:   order.Currency,
		}); err != nil {
			log.Printf("checkout: opening gateway for order %s failed: %v", order.OrderID, err)
		}
	}

	o := *order
	return &o, nil
}

// HandleGatewayCallback receives the gateway's completion callback and relays
// the proof triplet verbatim to the verification endpoint. On success the
// selection is cleared, snapshot and order are discarded together and a fresh
// snapshot is fetched: the new snapshot is the only authority on what remains
// unpaid. On failure the session returns to idle with the selection intact.
// A redelivered triplet for an already confirmed order changes nothing.
func (s *CheckoutService) HandleGatewayCallback(ctx context.Context, userID string, proof domain.PaymentProof) (domain.CheckoutState, error) {
	if userID == "" {
		return domain.CheckoutStateIdle, ErrInvalidUserID
	}

	sess := s.session(userID)
	sess.mu.Lock()

	if sess.state != domain.CheckoutStateAwaiting || sess.pending == nil {
		state := sess.state
		confirmed := proof.OrderID != "" && proof.OrderID == sess.lastConfirmedOrderID
		sess.mu.Unlock()
		if confirmed {
			// Gateways may redeliver; a repeat for a confirmed order is
			// discarded without a state change.
			return state, nil
		}
		return state, ErrNoGatewayCallbackExpected
	}

	if proof.OrderID != sess.pending.order.OrderID {
		state := sess.state
		sess.mu.Unlock()
		return state, fmt.Errorf("%w: order %s", ErrNoGatewayCallbackExpected, proof.OrderID)
	}

	// Release the session while the triplet is in flight so concurrent
	// checkout attempts are rejected, not queued.
	sess.state = domain.CheckoutStateVerifying
	unit := sess.pending
	sess.mu.Unlock()

	verifyErr := s.payments.VerifyPayment(ctx, proof)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if verifyErr != nil {
		// The order may or may not have been consumed server-side; it is
		// never reused. Selection survives for a retry from CreateOrder.
		sess.state = domain.CheckoutStateIdle
		sess.pending = nil
		s.updateRecord(ctx, unit.order.OrderID, domain.PaymentRecordFailed)
		s.releaseLock(ctx, userID)
		return sess.state, fmt.Errorf("%w: %v", ErrVerificationFailed, verifyErr)
	}

	sess.state = domain.CheckoutStateConfirmed
	sess.lastConfirmedOrderID = unit.order.OrderID
	sess.pending = nil
	sess.selection.Clear()
	sess.snapshot = nil
	s.releaseLock(ctx, userID)

	if s.records != nil {
		if err := s.records.MarkPaid(ctx, unit.order.OrderID, proof.PaymentID); err != nil {
			log.Printf("checkout: marking order %s paid failed: %v", unit.order.OrderID, err)
		}
	}

	// Reconcile: re-derive the unpaid set from the source of truth.
	snapshot, err := s.source.FetchPending(ctx, userID)
	if err != nil {
		log.Printf("checkout: refetch after confirmation failed for user %s: %v", userID, err)
		sess.fetched = false
		return sess.state, nil
	}
	sess.snapshot = snapshot
	sess.selection.SelectAll(snapshot)

	return sess.state, nil
}

// HandleGatewayFailure handles the gateway's failure callback. No partial
// state persists: the session returns to idle and the selection survives.
func (s *CheckoutService) HandleGatewayFailure(ctx context.Context, userID, reason string) (domain.CheckoutState, error) {
	if userID == "" {
		return domain.CheckoutStateIdle, ErrInvalidUserID
	}

	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.state != domain.CheckoutStateAwaiting {
		return sess.state, nil
	}

	log.Printf("checkout: gateway reported failure for user %s: %s", userID, reason)
	s.discardOrderLocked(ctx, sess, domain.PaymentRecordFailed)
	return sess.state, nil
}

// Cancel abandons the in-flight checkout on explicit user action.
func (s *CheckoutService) Cancel(ctx context.Context, userID string) (domain.CheckoutState, error) {
	if userID == "" {
		return domain.CheckoutStateIdle, ErrInvalidUserID
	}

	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.state != domain.CheckoutStateAwaiting {
		return sess.state, nil
	}

	s.discardOrderLocked(ctx, sess, domain.PaymentRecordCancelled)
	return sess.state, nil
}

// discardOrderLocked drops the pending order unit as a whole and returns the
// session to idle. Caller holds sess.mu.
func (s *CheckoutService) discardOrderLocked(ctx context.Context, sess *session, status domain.PaymentRecordStatus) {
	if sess.pending != nil {
		s.updateRecord(ctx, sess.pending.order.OrderID, status)
	}
	sess.pending = nil
	sess.state = domain.CheckoutStateIdle
	s.releaseLock(ctx, sess.userID)
}

func (s *CheckoutService) updateRecord(ctx context.Context, orderID string, status domain.PaymentRecordStatus) {
	if s.records == nil {
		return
	}
	if err := s.records.UpdateStatus(ctx, orderID, status); err != nil {
		log.Printf("checkout: updating record for order %s to %s failed: %v", orderID, status, err)
	}
}

func (s *CheckoutService) releaseLock(ctx context.Context, userID string) {
	if s.locks == nil {
		return
	}
	if err := s.locks.ReleaseCheckoutLock(ctx, userID); err != nil {
		log.Printf("checkout: releasing checkout lock for user %s failed: %v", userID, err)
	}
}

func findBooking(snapshot []domain.PendingBooking, t domain.ResourceType, id string) (domain.PendingBooking, bool) {
	for _, b := range snapshot {
		if b.ResourceType == t && b.ID == id {
			return b, true
		}
	}
	return domain.PendingBooking{}, false
}

func copySnapshot(snapshot []domain.PendingBooking) []domain.PendingBooking {
	if len(snapshot) == 0 {
		return nil
	}
	out := make([]domain.PendingBooking, len(snapshot))
	copy(out, snapshot)
	return out
}

// selectionFingerprint summarizes the selection contents so mutations can be
// detected without comparing slices element-wise at every call site.
func selectionFingerprint(sel *domain.SelectionSet) string {
	return fmt.Sprintf("h:%v|c:%v|a:%v", sel.HotelIDs(), sel.CabIDs(), sel.ActivityIDs())
}
