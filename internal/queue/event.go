// Package queue carries booking events over RabbitMQ to operators.
package queue

import (
	"time"

	"github.com/iliyamo/raveworks-booking/internal/booking"
	"github.com/iliyamo/raveworks-booking/internal/model"
)

// Queue names.  Routing key equals queue name on the default exchange.
const (
	BookingConfirmedQueue         = "booking.confirmed"
	BookingPersistenceFailedQueue = "booking.persistence_failed"
)

// BookingConfirmedEvent is published when a booking was stored.  It
// contains enough information for downstream consumers to log or notify
// without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID       string `json:"booking_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	ServiceType     int    `json:"service_type"`
	ServiceName     string `json:"service_name"`
	ServicePrice    int    `json:"service_price"`
	PreferredDate   string `json:"preferred_date"`
	PreferredTime   string `json:"preferred_time"`
	PaymentMethodID string `json:"payment_method_id"`
	ConfirmedAt     string `json:"confirmed_at"`
}

// BookingPersistenceFailedEvent is published when the visitor was shown a
// confirmation but the booking row was not written.  Booking is the full
// unsaved record so an operator can replay it.
type BookingPersistenceFailedEvent struct {
	Booking  model.BookingRecord `json:"booking"`
	Reason   string              `json:"reason"`
	FailedAt string              `json:"failed_at"`
}

// eventFor maps an outcome onto its queue and payload.  Failed outcomes
// produce no event.
func eventFor(o booking.Outcome, now time.Time) (string, any, bool) {
	ts := now.UTC().Format(time.RFC3339)
	switch o.Kind {
	case booking.OutcomeSucceeded:
		r := o.Record
		return BookingConfirmedQueue, BookingConfirmedEvent{
			BookingID:       r.ID,
			Name:            r.Name,
			Email:           r.Email,
			ServiceType:     r.ServiceType,
			ServiceName:     r.ServiceName,
			ServicePrice:    r.ServicePrice,
			PreferredDate:   r.PreferredDate,
			PreferredTime:   r.PreferredTime,
			PaymentMethodID: r.PaymentMethodID,
			ConfirmedAt:     ts,
		}, true
	case booking.OutcomeSucceededDegraded:
		reason := "unknown"
		if o.Reason != nil {
			reason = o.Reason.Error()
		}
		return BookingPersistenceFailedQueue, BookingPersistenceFailedEvent{
			Booking:  o.Record,
			Reason:   reason,
			FailedAt: ts,
		}, true
	}
	return "", nil, false
}
