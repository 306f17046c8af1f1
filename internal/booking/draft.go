package booking

import (
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/raveworks-booking/internal/model"
)

// Draft field names accepted by UpdateField.
const (
	FieldName         = "name"
	FieldEmail        = "email"
	FieldPhone        = "phone"
	FieldCompany      = "company"
	FieldDate         = "date"
	FieldTime         = "time"
	FieldRequirements = "requirements"
)

const dateLayout = "2006-01-02"

// TimeSlots are the start times a consultation can be booked at.
var TimeSlots = []string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00"}

// Draft is the form state of one booking attempt.  Service is a snapshot
// taken when the attempt began and is not re-read from the catalog.
type Draft struct {
	Service      model.ServiceOffering `json:"service"`
	Name         string                `json:"name"`
	Email        string                `json:"email"`
	Phone        string                `json:"phone"`
	Company      string                `json:"company"`
	Date         string                `json:"date"`
	Time         string                `json:"time"`
	Requirements string                `json:"requirements"`
}

// IsField reports whether name is a draft field accepted by UpdateField.
func IsField(name string) bool {
	switch name {
	case FieldName, FieldEmail, FieldPhone, FieldCompany, FieldDate, FieldTime, FieldRequirements:
		return true
	}
	return false
}

func (d *Draft) set(name, value string) error {
	switch name {
	case FieldName:
		d.Name = value
	case FieldEmail:
		d.Email = value
	case FieldPhone:
		d.Phone = value
	case FieldCompany:
		d.Company = value
	case FieldDate:
		d.Date = value
	case FieldTime:
		d.Time = value
	case FieldRequirements:
		d.Requirements = value
	default:
		return ErrUnknownField
	}
	return nil
}

func (d Draft) clone() Draft {
	out := d
	out.Service = d.Service.Clone()
	return out
}

// validate checks the required fields.  now decides which dates count as
// being in the past.
func (d Draft) validate(now time.Time) *ValidationError {
	fields := map[string]string{}

	if strings.TrimSpace(d.Name) == "" {
		fields[FieldName] = "required"
	}

	email := strings.TrimSpace(d.Email)
	if email == "" {
		fields[FieldEmail] = "required"
	} else if !PlausibleEmail(email) {
		fields[FieldEmail] = "invalid email address"
	}

	date := strings.TrimSpace(d.Date)
	if date == "" {
		fields[FieldDate] = "required"
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		fields[FieldDate] = "must be YYYY-MM-DD"
	} else if date < now.Format(dateLayout) {
		fields[FieldDate] = "must not be in the past"
	}

	slot := strings.TrimSpace(d.Time)
	if slot == "" {
		fields[FieldTime] = "required"
	} else if !slices.Contains(TimeSlots, slot) {
		fields[FieldTime] = "not an offered time slot"
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// PlausibleEmail reports whether s is a bare address with a dotted
// domain.  Display-name forms such as "Ada <ada@example.com>" are
// rejected.
func PlausibleEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	domain := s[at+1:]
	return at > 0 && strings.Contains(domain, ".") && !strings.HasSuffix(domain, ".")
}

// record builds the row to persist from the draft and the payment
// reference.  The id is fixed here so a failed write can be replayed
// without creating a second booking.
func (d Draft) record(paymentMethodID string) model.BookingRecord {
	return model.BookingRecord{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(d.Name),
		Email:           strings.TrimSpace(d.Email),
		Phone:           strings.TrimSpace(d.Phone),
		Company:         strings.TrimSpace(d.Company),
		ServiceType:     d.Service.ID,
		ServiceName:     d.Service.Name,
		ServicePrice:    d.Service.Price,
		PreferredDate:   strings.TrimSpace(d.Date),
		PreferredTime:   strings.TrimSpace(d.Time),
		Requirements:    d.Requirements,
		PaymentMethodID: paymentMethodID,
		Status:          model.BookingPending,
	}
}
