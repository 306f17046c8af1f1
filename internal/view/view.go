// Package view decides what the content overlay shows for a visitor.
//
// Select is pure: given the navigation state, the booking workflow
// snapshot and the catalog it always yields exactly one Display.
package view

import (
	"errors"

	"github.com/iliyamo/raveworks-booking/internal/booking"
	"github.com/iliyamo/raveworks-booking/internal/model"
	"github.com/iliyamo/raveworks-booking/internal/navigation"
)

// Kind of content on display.
type Kind string

const (
	KindSuccess     Kind = "success"
	KindBookingForm Kind = "booking_form"
	KindSection     Kind = "section"
	KindDefault     Kind = "default"
)

// DegradedWarning is shown alongside a confirmation whose booking row
// could not be stored.
const DegradedWarning = "Your booking is confirmed, but we could not record it automatically. Our team has been notified and will follow up."

// Content is the subset of the catalog the selector reads.
type Content interface {
	Lookup(id model.SectionID) model.ContentEntry
	Default() model.ContentEntry
	Success() model.ContentEntry
	ListServices() []model.ServiceOffering
}

// Display is everything the renderer needs for one frame of the overlay.
type Display struct {
	Visible  bool                    `json:"visible"`
	Kind     Kind                    `json:"kind"`
	Section  model.SectionID         `json:"section,omitempty"`
	Title    string                  `json:"title"`
	Body     []string                `json:"body"`
	Services []model.ServiceOffering `json:"services,omitempty"`
	Form     *Form                   `json:"form,omitempty"`
	Booking  *Confirmation           `json:"booking,omitempty"`
}

// Form describes the booking form.
type Form struct {
	State      booking.State     `json:"state"`
	Draft      booking.Draft     `json:"draft"`
	TimeSlots  []string          `json:"time_slots"`
	Price      int               `json:"price"`
	Error      string            `json:"error,omitempty"`
	ErrorCode  string            `json:"error_code,omitempty"`
	FieldError map[string]string `json:"field_errors,omitempty"`
}

// Confirmation summarizes a successful submission.
type Confirmation struct {
	ID            string `json:"id,omitempty"`
	Service       string `json:"service"`
	Price         int    `json:"price"`
	Email         string `json:"email"`
	PreferredDate string `json:"preferred_date"`
	PreferredTime string `json:"preferred_time"`
	Stored        bool   `json:"stored"`
	Warning       string `json:"warning,omitempty"`
}

// Select picks the content to display.  Precedence, highest first: a
// successful booking, the booking form, the active section, the default
// entry.
func Select(nav navigation.Snapshot, wf booking.Snapshot, content Content) Display {
	d := Display{Visible: nav.OverlayVisible}

	switch {
	case (wf.State == booking.StateSucceeded || wf.State == booking.StateSucceededDegraded) && wf.Last != nil:
		entry := content.Success()
		d.Kind = KindSuccess
		d.Title, d.Body = entry.Title, entry.Body
		d.Booking = confirmation(*wf.Last)

	case (wf.State == booking.StateEditing || wf.State == booking.StateSubmitting) && wf.Draft != nil:
		d.Kind = KindBookingForm
		d.Section = model.SectionBooking
		d.Title = "Book " + wf.Draft.Service.Name
		d.Body = []string{wf.Draft.Service.Description}
		d.Form = form(wf)

	case nav.ActiveSection != model.SectionNone:
		entry := content.Lookup(nav.ActiveSection)
		d.Kind = KindSection
		d.Section = nav.ActiveSection
		d.Title, d.Body = entry.Title, entry.Body
		if nav.ActiveSection == model.SectionBooking {
			d.Services = content.ListServices()
		}

	default:
		entry := content.Default()
		d.Kind = KindDefault
		d.Title, d.Body = entry.Title, entry.Body
	}
	return d
}

func form(wf booking.Snapshot) *Form {
	f := &Form{
		State:     wf.State,
		Draft:     *wf.Draft,
		TimeSlots: append([]string(nil), booking.TimeSlots...),
		Price:     wf.Draft.Service.Price,
	}
	if wf.Last == nil || wf.Last.Kind != booking.OutcomeFailed || wf.Last.Reason == nil {
		return f
	}

	var verr *booking.ValidationError
	var perr *booking.PaymentError
	switch {
	case errors.As(wf.Last.Reason, &verr):
		f.Error = "Please correct the highlighted fields."
		f.FieldError = make(map[string]string, len(verr.Fields))
		for k, v := range verr.Fields {
			f.FieldError[k] = v
		}
	case errors.As(wf.Last.Reason, &perr):
		f.Error = perr.Error()
		if perr.Message != "" {
			f.Error = perr.Message
		}
		f.ErrorCode = perr.Code
	default:
		f.Error = wf.Last.Reason.Error()
	}
	return f
}

func confirmation(o booking.Outcome) *Confirmation {
	c := &Confirmation{
		ID:            o.Record.ID,
		Service:       o.Record.ServiceName,
		Price:         o.Record.ServicePrice,
		Email:         o.Record.Email,
		PreferredDate: o.Record.PreferredDate,
		PreferredTime: o.Record.PreferredTime,
		Stored:        o.Kind == booking.OutcomeSucceeded,
	}
	if !c.Stored {
		c.Warning = DegradedWarning
	}
	return c
}
