package model

import "time"

// ContactRecord is a general enquiry submitted outside the booking flow.
type ContactRecord struct {
	ID        string    `json:"id"`         // contacts.id
	Name      string    `json:"name"`       // contacts.name
	Email     string    `json:"email"`      // contacts.email
	Subject   string    `json:"subject"`    // contacts.subject
	Message   string    `json:"message"`    // contacts.message
	CreatedAt time.Time `json:"created_at"` // contacts.created_at
}
