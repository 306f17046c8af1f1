package model

import "time"

// BookingStatus is the lifecycle state of a stored booking.  New bookings
// always start as pending; operators move them forward from the admin API.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Valid reports whether s is one of the known booking statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// BookingRecord is a consultation request as it is persisted.  The field
// set and JSON names are the storage wire contract: any datastore behind
// the gateway must accept exactly these columns.
//
// Fields:
//  ID              – primary key (UUID string).
//  Name            – contact name entered in the form.
//  Email           – contact email.
//  Phone           – optional phone number.
//  Company         – optional company name.
//  ServiceType     – catalog id of the booked service.
//  ServiceName     – service name snapshotted when booking began.
//  ServicePrice    – service price snapshotted when booking began.
//  PreferredDate   – requested day, YYYY-MM-DD.
//  PreferredTime   – requested slot, HH:MM.
//  Requirements    – free text describing the project.
//  PaymentMethodID – reference returned by the payment provider.
//  Status          – see BookingStatus.
//  CreatedAt       – creation timestamp (UTC).
//  UpdatedAt       – last update timestamp (UTC).
type BookingRecord struct {
	ID              string        `json:"id"`                // bookings.id
	Name            string        `json:"name"`              // bookings.name
	Email           string        `json:"email"`             // bookings.email
	Phone           string        `json:"phone"`             // bookings.phone
	Company         string        `json:"company"`           // bookings.company
	ServiceType     int           `json:"service_type"`      // bookings.service_type
	ServiceName     string        `json:"service_name"`      // bookings.service_name
	ServicePrice    int           `json:"service_price"`     // bookings.service_price
	PreferredDate   string        `json:"preferred_date"`    // bookings.preferred_date
	PreferredTime   string        `json:"preferred_time"`    // bookings.preferred_time
	Requirements    string        `json:"requirements"`      // bookings.requirements
	PaymentMethodID string        `json:"payment_method_id"` // bookings.payment_method_id
	Status          BookingStatus `json:"status"`            // bookings.status
	CreatedAt       time.Time     `json:"created_at"`        // bookings.created_at
	UpdatedAt       time.Time     `json:"updated_at"`        // bookings.updated_at
}
