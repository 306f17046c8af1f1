package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/raveworks-booking/internal/model"
)

// BookingRepo provides create, list and status updates for bookings.  All
// timestamp fields are stored in UTC.
type BookingRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db, now: time.Now}
}

const bookingColumns = `id, name, email, phone, company, service_type, service_name, service_price,
	preferred_date, preferred_time, requirements, payment_method_id, status, created_at, updated_at`

// Create inserts a booking.  A missing ID is generated, a missing status
// defaults to pending and both timestamps are set to now.  The stored row
// is read back and returned; if that read fails the inserted values are
// returned instead.
func (r *BookingRepo) Create(ctx context.Context, rec model.BookingRecord) (model.BookingRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Status == "" {
		rec.Status = model.BookingPending
	}
	if !rec.Status.Valid() {
		return model.BookingRecord{}, ErrInvalidStatus
	}
	now := r.now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	const q = `INSERT INTO bookings (` + bookingColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.Name, rec.Email, rec.Phone, rec.Company,
		rec.ServiceType, rec.ServiceName, rec.ServicePrice,
		rec.PreferredDate, rec.PreferredTime, rec.Requirements,
		rec.PaymentMethodID, string(rec.Status), rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return model.BookingRecord{}, fmt.Errorf("insert booking: %w", err)
	}
	// The row is committed at this point.  The read-back only refreshes
	// the values; failing it must not report the insert as failed.
	stored, err := r.GetByID(ctx, rec.ID)
	if err != nil {
		return rec, nil
	}
	return stored, nil
}

// GetByID loads one booking.  ErrBookingNotFound is returned when no row
// matches.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (model.BookingRecord, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	rec, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.BookingRecord{}, ErrBookingNotFound
	}
	return rec, err
}

// List returns all bookings, newest first.
func (r *BookingRepo) List(ctx context.Context) ([]model.BookingRecord, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	out := []model.BookingRecord{}
	for rows.Next() {
		rec, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// UpdateStatus sets a booking's status and bumps updated_at.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) (model.BookingRecord, error) {
	if !status.Valid() {
		return model.BookingRecord{}, ErrInvalidStatus
	}
	const q = `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, string(status), r.now().UTC(), id); err != nil {
		return model.BookingRecord{}, fmt.Errorf("update booking status: %w", err)
	}
	// MySQL reports zero affected rows for no-op updates, so existence is
	// decided by reading the row back.
	return r.GetByID(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (model.BookingRecord, error) {
	var rec model.BookingRecord
	var status string
	err := row.Scan(
		&rec.ID, &rec.Name, &rec.Email, &rec.Phone, &rec.Company,
		&rec.ServiceType, &rec.ServiceName, &rec.ServicePrice,
		&rec.PreferredDate, &rec.PreferredTime, &rec.Requirements,
		&rec.PaymentMethodID, &status, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return model.BookingRecord{}, err
	}
	rec.Status = model.BookingStatus(status)
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return rec, nil
}
