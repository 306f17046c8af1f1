package booking

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel errors for calls made in the wrong workflow state.  Handlers
// translate them into HTTP 409 / 400 responses.
var (
	ErrInvalidState   = errors.New("booking: operation not allowed in current state")
	ErrBusy           = errors.New("booking: submission in progress")
	ErrUnknownService = errors.New("booking: unknown service")
	ErrUnknownField   = errors.New("booking: unknown field")
)

// ValidationError lists the draft fields that failed validation, keyed by
// field name.  No external call is made when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// PaymentError is reported by the payment collaborator, or produced when
// the call times out.  The attempt fails and the visitor may retry.
type PaymentError struct {
	Code    string
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	if e.Message != "" {
		return "payment: " + e.Message
	}
	if e.Err != nil {
		return "payment: " + e.Err.Error()
	}
	return "payment: failed"
}

func (e *PaymentError) Unwrap() error { return e.Err }

// PersistenceError wraps a failed or timed-out booking write.  It never
// fails the attempt; it is carried on a degraded outcome instead.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return "persistence: failed"
	}
	return "persistence: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }
