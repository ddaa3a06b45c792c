package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"travelpay/internal/domain"
	"travelpay/internal/repository"
)

// PaymentRecordRepository is a PostgreSQL implementation of
// repository.PaymentRecordRepository.
type PaymentRecordRepository struct {
	q Querier
}

// NewPaymentRecordRepository creates a new PostgreSQL payment record repository.
func NewPaymentRecordRepository(db *sql.DB) *PaymentRecordRepository {
	return &PaymentRecordRepository{q: db}
}

// Create persists a new payment record.
func (r *PaymentRecordRepository) Create(ctx context.Context, record *domain.PaymentRecord) error {
	query := `
		INSERT INTO payment_records
			(id, user_id, order_id, payment_id, amount, currency, status,
			 hotel_booking_ids, cab_booking_ids, activity_booking_ids, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.q.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		record.OrderID,
		record.PaymentID,
		record.Amount,
		record.Currency,
		record.Status,
		pq.Array(record.HotelBookingIDs),
		pq.Array(record.CabBookingIDs),
		pq.Array(record.ActivityBookingIDs),
		record.CreatedAt,
	)

	return err
}

// GetByOrderID retrieves a payment record by its order id.
func (r *PaymentRecordRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.PaymentRecord, error) {
	query := selectColumns + ` WHERE order_id = $1`

	record, err := scanRecord(r.q.QueryRowContext(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return record, nil
}

// MarkPaid sets the record to SUCCESS with the gateway payment id.
func (r *PaymentRecordRepository) MarkPaid(ctx context.Context, orderID, paymentID string) error {
	query := `
		UPDATE payment_records
		SET status = $1, payment_id = $2, paid_at = $3
		WHERE order_id = $4
	`

	result, err := r.q.ExecContext(ctx, query, domain.PaymentRecordSuccess, paymentID, time.Now().UTC(), orderID)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// UpdateStatus updates the status of a payment record.
func (r *PaymentRecordRepository) UpdateStatus(ctx context.Context, orderID string, status domain.PaymentRecordStatus) error {
	query := `UPDATE payment_records SET status = $1 WHERE order_id = $2`

	result, err := r.q.ExecContext(ctx, query, status, orderID)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// ListByUser returns all payment records for a user, newest first.
func (r *PaymentRecordRepository) ListByUser(ctx context.Context, userID string) ([]*domain.PaymentRecord, error) {
	query := selectColumns + ` WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.PaymentRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

const selectColumns = `
	SELECT id, user_id, order_id, payment_id, amount, currency, status,
	       hotel_booking_ids, cab_booking_ids, activity_booking_ids,
	       created_at, paid_at
	FROM payment_records
`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.PaymentRecord, error) {
	var record domain.PaymentRecord
	var paymentID sql.NullString
	var paidAt sql.NullTime
	var hotelIDs, cabIDs, activityIDs pq.StringArray

	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.OrderID,
		&paymentID,
		&record.Amount,
		&record.Currency,
		&record.Status,
		&hotelIDs,
		&cabIDs,
		&activityIDs,
		&record.CreatedAt,
		&paidAt,
	)
	if err != nil {
		return nil, err
	}

	record.PaymentID = paymentID.String
	record.HotelBookingIDs = hotelIDs
	record.CabBookingIDs = cabIDs
	record.ActivityBookingIDs = activityIDs
	if paidAt.Valid {
		t := paidAt.Time
		record.PaidAt = &t
	}

	return &record, nil
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
