package booking

import "github.com/iliyamo/raveworks-booking/internal/model"

// OutcomeKind classifies a submission attempt.
type OutcomeKind string

const (
	OutcomeSucceeded         OutcomeKind = "succeeded"
	OutcomeSucceededDegraded OutcomeKind = "succeeded_degraded"
	OutcomeFailed            OutcomeKind = "failed"
)

// Outcome is produced once per Submit.
//
// Succeeded carries the stored record.  SucceededDegraded carries the
// record that could not be stored and a *PersistenceError reason.  Failed
// carries a *ValidationError or *PaymentError reason.
type Outcome struct {
	Kind          OutcomeKind
	Record        model.BookingRecord
	PaymentMethod PaymentMethodRef
	Reason        error
}

// Succeeded reports whether the visitor should see a confirmation.
func (o Outcome) Succeeded() bool {
	return o.Kind == OutcomeSucceeded || o.Kind == OutcomeSucceededDegraded
}
