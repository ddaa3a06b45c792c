package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"travelpay/internal/domain"
	"travelpay/internal/repository"
	"travelpay/internal/service"
	"travelpay/internal/upstream"
)

// ──────────────────────────────────────────────
// MOCK BOOKING SERVICE
// ──────────────────────────────────────────────

// MockBookingService is a mock implementation of upstream.BookingService.
type MockBookingService struct {
	mu         sync.RWMutex
	Hotels     []upstream.HotelBooking
	Cabs       []upstream.CabBooking
	Activities []upstream.ActivityBooking

	// Counters for verification
	HotelCallCount    int32
	CabCallCount      int32
	ActivityCallCount int32

	// Error injection
	HotelError    error
	CabError      error
	ActivityError error
}

// NewMockBookingService creates a new mock booking service.
func NewMockBookingService() *MockBookingService {
	return &MockBookingService{}
}

func (m *MockBookingService) ListHotelBookings(ctx context.Context, userID string) ([]upstream.HotelBooking, error) {
	atomic.AddInt32(&m.HotelCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.HotelError != nil {
		return nil, m.HotelError
	}
	result := make([]upstream.HotelBooking, len(m.Hotels))
	copy(result, m.Hotels)
	return result, nil
}

func (m *MockBookingService) ListCabBookings(ctx context.Context, userID string) ([]upstream.CabBooking, error) {
	atomic.AddInt32(&m.CabCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.CabError != nil {
		return nil, m.CabError
	}
	result := make([]upstream.CabBooking, len(m.Cabs))
	copy(result, m.Cabs)
	return result, nil
}

func (m *MockBookingService) ListActivityBookings(ctx context.Context, userID string) ([]upstream.ActivityBooking, error) {
	atomic.AddInt32(&m.ActivityCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ActivityError != nil {
		return nil, m.ActivityError
	}
	result := make([]upstream.ActivityBooking, len(m.Activities))
	copy(result, m.Activities)
	return result, nil
}

// SetBookings replaces all raw records (for test setup).
func (m *MockBookingService) SetBookings(hotels []upstream.HotelBooking, cabs []upstream.CabBooking, activities []upstream.ActivityBooking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Hotels = hotels
	m.Cabs = cabs
	m.Activities = activities
}

// ──────────────────────────────────────────────
// MOCK PAYMENT SERVICE
// ──────────────────────────────────────────────

// MockPaymentService is a mock implementation of upstream.PaymentService.
type MockPaymentService struct {
	mu sync.Mutex

	// Order returned by CreateOrder. When nil, an order is synthesized with
	// the configured amount.
	Order       *domain.PaymentOrder
	OrderAmount float64

	// Captured arguments
	LastOrderRequest upstream.OrderRequest
	LastProof        domain.PaymentProof

	// Counters for verification
	CreateOrderCallCount int32
	VerifyCallCount      int32

	// Error injection
	CreateOrderError error
	VerifyError      error

	// VerifyStarted receives a signal once VerifyPayment has captured the
	// proof; VerifyRelease then blocks it until signalled. Both nil by
	// default, so verification completes immediately.
	VerifyStarted chan struct{}
	VerifyRelease chan struct{}
}

// NewMockPaymentService creates a new mock payment service.
func NewMockPaymentService() *MockPaymentService {
	return &MockPaymentService{}
}

func (m *MockPaymentService) CreateOrder(ctx context.Context, userID string, req upstream.OrderRequest) (*domain.PaymentOrder, error) {
	atomic.AddInt32(&m.CreateOrderCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastOrderRequest = req
	if m.CreateOrderError != nil {
		return nil, m.CreateOrderError
	}
	if m.Order != nil {
		order := *m.Order
		return &order, nil
	}
	return &domain.PaymentOrder{
		OrderID:    "order-1",
		Amount:     m.OrderAmount,
		Currency:   "INR",
		GatewayKey: "key-test",
	}, nil
}

func (m *MockPaymentService) VerifyPayment(ctx context.Context, proof domain.PaymentProof) error {
	atomic.AddInt32(&m.VerifyCallCount, 1)
	m.mu.Lock()
	m.LastProof = proof
	started := m.VerifyStarted
	release := m.VerifyRelease
	err := m.VerifyError
	m.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		<-release
	}
	return err
}

// ──────────────────────────────────────────────
// MOCK CHECKOUT GATEWAY
// ──────────────────────────────────────────────

// MockGateway is a capturing mock implementation of service.CheckoutGateway.
type MockGateway struct {
	mu sync.Mutex

	LastRequest service.CheckoutRequest

	// Counters
	OpenCallCount int32

	// Error injection
	OpenError error
}

// NewMockGateway creates a new capturing mock gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) Open(ctx context.Context, req service.CheckoutRequest) error {
	atomic.AddInt32(&m.OpenCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRequest = req
	return m.OpenError
}

// ──────────────────────────────────────────────
// MOCK PAYMENT RECORD REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRecordRepository is an in-memory implementation of
// repository.PaymentRecordRepository.
type MockPaymentRecordRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.PaymentRecord

	// Counters
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockPaymentRecordRepository creates a new mock payment record repository.
func NewMockPaymentRecordRepository() *MockPaymentRecordRepository {
	return &MockPaymentRecordRepository{
		records: make(map[string]*domain.PaymentRecord),
	}
}

func (m *MockPaymentRecordRepository) Create(ctx context.Context, record *domain.PaymentRecord) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *record
	m.records[record.OrderID] = &copy
	return nil
}

func (m *MockPaymentRecordRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.PaymentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *record
	return &copy, nil
}

func (m *MockPaymentRecordRepository) MarkPaid(ctx context.Context, orderID, paymentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	now := time.Now().UTC()
	record.Status = domain.PaymentRecordSuccess
	record.PaymentID = paymentID
	record.PaidAt = &now
	return nil
}

func (m *MockPaymentRecordRepository) UpdateStatus(ctx context.Context, orderID string, status domain.PaymentRecordStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	record.Status = status
	return nil
}

func (m *MockPaymentRecordRepository) ListByUser(ctx context.Context, userID string) ([]*domain.PaymentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.PaymentRecord
	for _, r := range m.records {
		if r.UserID == userID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

// RecordStatus returns the status of a record for test assertions.
func (m *MockPaymentRecordRepository) RecordStatus(orderID string) domain.PaymentRecordStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[orderID]
	if !ok {
		return ""
	}
	return record.Status
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of the checkout lock store.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireCheckoutLock(ctx context.Context, userID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := "lock:checkout:" + userID
	if expiry, exists := m.locks[key]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}

	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) ReleaseCheckoutLock(ctx context.Context, userID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, "lock:checkout:"+userID)
	return nil
}

// IsLocked checks if a user's checkout is locked (for test assertions).
func (m *MockLockStore) IsLocked(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks["lock:checkout:"+userID]
	return exists && time.Now().Before(expiry)
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockUpstreamDown = errors.New("mock: upstream unreachable")
	ErrMockRejected     = errors.New("mock: request rejected")
)
