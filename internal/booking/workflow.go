// Package booking runs a single consultation booking attempt: form capture,
// validation, payment-method creation and persistence.
//
// A payment method that was created successfully is never reported to the
// visitor as a failure because the booking row could not be written.  The
// write failure is logged and handed to the Reporter so operators see it.
package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/raveworks-booking/internal/model"
)

// State of the workflow.  A failed submission returns to StateEditing.
type State string

const (
	StateIdle              State = "idle"
	StateEditing           State = "editing"
	StateSubmitting        State = "submitting"
	StateSucceeded         State = "succeeded"
	StateSucceededDegraded State = "succeeded_degraded"
)

// CardDetails identifies the card to tokenize.  Raw card numbers never
// reach this service; the browser exchanges them for a token first.
type CardDetails struct {
	Token string
}

// BillingDetails are copied from the draft into the payment request.
type BillingDetails struct {
	Name  string
	Email string
	Phone string
}

// PaymentMethodRef is the provider's handle for a created payment method.
type PaymentMethodRef struct {
	ID    string `json:"id"`
	Brand string `json:"brand,omitempty"`
	Last4 string `json:"last4,omitempty"`
}

// ServiceCatalog resolves service ids to offerings.
type ServiceCatalog interface {
	Service(id int) (model.ServiceOffering, bool)
}

// PaymentTokenizer creates a payment method with the payment provider.
type PaymentTokenizer interface {
	CreatePaymentMethod(ctx context.Context, card CardDetails, billing BillingDetails) (PaymentMethodRef, error)
}

// Gateway stores booking records.
type Gateway interface {
	CreateBooking(ctx context.Context, rec model.BookingRecord) (model.BookingRecord, error)
}

// Reporter receives every submission outcome.  It is the operator-visible
// channel for persistence failures.
type Reporter interface {
	Report(ctx context.Context, o Outcome)
}

// Reporters fans an outcome out to several reporters.
type Reporters []Reporter

func (rs Reporters) Report(ctx context.Context, o Outcome) {
	for _, r := range rs {
		if r != nil {
			r.Report(ctx, o)
		}
	}
}

// Snapshot is a consistent copy of the workflow for rendering.
type Snapshot struct {
	State State
	Draft *Draft
	Last  *Outcome
}

// Workflow owns one booking draft at a time.  All methods are safe for
// concurrent use; while a submission is in flight every other mutating
// call is rejected with ErrBusy.
type Workflow struct {
	mu    sync.Mutex
	state State
	draft *Draft
	last  *Outcome

	services ServiceCatalog
	payments PaymentTokenizer
	store    Gateway
	reporter Reporter
	logger   *zap.Logger
	now      func() time.Time

	paymentTimeout     time.Duration
	persistenceTimeout time.Duration
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *zap.Logger) Option {
	return func(w *Workflow) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithReporter sets the outcome reporter.
func WithReporter(r Reporter) Option {
	return func(w *Workflow) { w.reporter = r }
}

// WithClock overrides the clock used for date validation.
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) {
		if now != nil {
			w.now = now
		}
	}
}

// WithTimeouts bounds the payment and persistence calls.  Zero leaves a
// call bounded only by the caller's context.
func WithTimeouts(payment, persistence time.Duration) Option {
	return func(w *Workflow) {
		w.paymentTimeout = payment
		w.persistenceTimeout = persistence
	}
}

// New returns an idle workflow.
func New(services ServiceCatalog, payments PaymentTokenizer, store Gateway, opts ...Option) *Workflow {
	if services == nil || payments == nil || store == nil {
		panic("nil dependency passed to booking.New")
	}
	w := &Workflow{
		state:    StateIdle,
		services: services,
		payments: payments,
		store:    store,
		logger:   zap.L(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Begin starts a new attempt for service with an empty draft.  The
// service must exist in the catalog; its name and price are copied now.
func (w *Workflow) Begin(service model.ServiceOffering) (Draft, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateSubmitting {
		return Draft{}, ErrBusy
	}
	offering, ok := w.services.Service(service.ID)
	if !ok {
		return Draft{}, ErrUnknownService
	}
	w.draft = &Draft{Service: offering.Clone()}
	w.last = nil
	w.state = StateEditing
	return w.draft.clone(), nil
}

// UpdateField sets one draft field.  Values are not validated here.
func (w *Workflow) UpdateField(name, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateSubmitting:
		return ErrBusy
	case StateEditing:
		return w.draft.set(name, value)
	default:
		return ErrInvalidState
	}
}

// UpdateFields sets several draft fields at once.  Nothing is applied
// when any name is unknown.
func (w *Workflow) UpdateFields(fields map[string]string) error {
	for name := range fields {
		if !IsField(name) {
			return ErrUnknownField
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateSubmitting:
		return ErrBusy
	case StateEditing:
	default:
		return ErrInvalidState
	}
	for name, value := range fields {
		_ = w.draft.set(name, value)
	}
	return nil
}

// Cancel discards the draft and returns to idle.  Cancelling an idle
// workflow does nothing.
func (w *Workflow) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateSubmitting:
		return ErrBusy
	case StateIdle, StateEditing:
		w.clear()
		return nil
	default:
		return ErrInvalidState
	}
}

// Reset returns to idle from any state except StateSubmitting.
func (w *Workflow) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateSubmitting {
		return ErrBusy
	}
	w.clear()
	return nil
}

func (w *Workflow) clear() {
	w.state = StateIdle
	w.draft = nil
	w.last = nil
}

// Submit validates the draft, creates a payment method and stores the
// booking.  The returned error is non-nil only when Submit is called in
// the wrong state; every other result is described by the Outcome.
func (w *Workflow) Submit(ctx context.Context, card CardDetails) (Outcome, error) {
	w.mu.Lock()
	switch w.state {
	case StateSubmitting:
		w.mu.Unlock()
		return Outcome{}, ErrBusy
	case StateEditing:
	default:
		w.mu.Unlock()
		return Outcome{}, ErrInvalidState
	}

	if verr := w.draft.validate(w.now()); verr != nil {
		out := Outcome{Kind: OutcomeFailed, Reason: verr}
		w.last = &out
		w.mu.Unlock()
		w.report(ctx, out)
		return out, nil
	}

	draft := w.draft.clone()
	w.state = StateSubmitting
	w.last = nil
	w.mu.Unlock()

	ref, err := w.createPaymentMethod(ctx, card, draft)
	if err != nil {
		out := Outcome{Kind: OutcomeFailed, Reason: err}
		w.finish(StateEditing, out)
		w.report(ctx, out)
		return out, nil
	}

	rec := draft.record(ref.ID)
	stored, err := w.createBooking(ctx, rec)
	if err != nil {
		perr := &PersistenceError{Err: err}
		w.logger.Error("booking not stored; confirming to visitor anyway",
			zap.Error(perr),
			zap.String("email", rec.Email),
			zap.Int("service_type", rec.ServiceType),
			zap.String("payment_method_id", rec.PaymentMethodID),
		)
		out := Outcome{Kind: OutcomeSucceededDegraded, Record: rec, PaymentMethod: ref, Reason: perr}
		w.finish(StateSucceededDegraded, out)
		w.report(ctx, out)
		return out, nil
	}

	out := Outcome{Kind: OutcomeSucceeded, Record: stored, PaymentMethod: ref}
	w.finish(StateSucceeded, out)
	w.report(ctx, out)
	return out, nil
}

func (w *Workflow) createPaymentMethod(ctx context.Context, card CardDetails, d Draft) (PaymentMethodRef, error) {
	if w.paymentTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.paymentTimeout)
		defer cancel()
	}
	ref, err := w.payments.CreatePaymentMethod(ctx, card, BillingDetails{
		Name:  d.Name,
		Email: d.Email,
		Phone: d.Phone,
	})
	if err != nil {
		var perr *PaymentError
		if errors.As(err, &perr) {
			return PaymentMethodRef{}, perr
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return PaymentMethodRef{}, &PaymentError{Code: "timeout", Message: "payment provider timed out", Err: err}
		}
		return PaymentMethodRef{}, &PaymentError{Err: err}
	}
	return ref, nil
}

func (w *Workflow) createBooking(ctx context.Context, rec model.BookingRecord) (model.BookingRecord, error) {
	if w.persistenceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.persistenceTimeout)
		defer cancel()
	}
	return w.store.CreateBooking(ctx, rec)
}

func (w *Workflow) finish(state State, out Outcome) {
	w.mu.Lock()
	w.state = state
	w.last = &out
	w.mu.Unlock()
}

func (w *Workflow) report(ctx context.Context, out Outcome) {
	if w.reporter == nil {
		return
	}
	w.reporter.Report(context.WithoutCancel(ctx), out)
}

// State returns the current state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Draft returns a copy of the current draft, if any.
func (w *Workflow) Draft() (Draft, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draft == nil {
		return Draft{}, false
	}
	return w.draft.clone(), true
}

// LastOutcome returns the outcome of the most recent submission of the
// current attempt.
func (w *Workflow) LastOutcome() (Outcome, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.last == nil {
		return Outcome{}, false
	}
	return *w.last, true
}

// Snapshot returns state, draft and last outcome read under one lock.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := Snapshot{State: w.state}
	if w.draft != nil {
		d := w.draft.clone()
		s.Draft = &d
	}
	if w.last != nil {
		o := *w.last
		s.Last = &o
	}
	return s
}
