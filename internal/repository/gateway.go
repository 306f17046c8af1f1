package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/raveworks-booking/internal/model"
)

// Gateway is the persistence boundary used by the booking workflow and
// the admin and contact handlers.  It bundles the booking and contact
// repositories behind the four storage operations.
type Gateway struct {
	Bookings *BookingRepo
	Contacts *ContactRepo
}

// NewGateway builds a Gateway over db.
func NewGateway(db *sql.DB) *Gateway {
	return &Gateway{Bookings: NewBookingRepo(db), Contacts: NewContactRepo(db)}
}

// CreateBooking stores a new booking record.
func (g *Gateway) CreateBooking(ctx context.Context, rec model.BookingRecord) (model.BookingRecord, error) {
	return g.Bookings.Create(ctx, rec)
}

// ListBookings returns every booking, newest first.
func (g *Gateway) ListBookings(ctx context.Context) ([]model.BookingRecord, error) {
	return g.Bookings.List(ctx)
}

// UpdateBookingStatus changes the status of booking id.
func (g *Gateway) UpdateBookingStatus(ctx context.Context, id string, status model.BookingStatus) (model.BookingRecord, error) {
	return g.Bookings.UpdateStatus(ctx, id, status)
}

// CreateContact stores a contact form submission.
func (g *Gateway) CreateContact(ctx context.Context, rec model.ContactRecord) (model.ContactRecord, error) {
	return g.Contacts.Create(ctx, rec)
}
