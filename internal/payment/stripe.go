// Package payment creates card payment methods with Stripe.  Only the
// payment method is created; charging it is left to the back office.
package payment

import (
	"context"
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentmethod"

	"github.com/iliyamo/raveworks-booking/internal/booking"
)

// Tokenizer implements booking.PaymentTokenizer on top of the Stripe
// PaymentMethods API.
type Tokenizer struct {
	client paymentmethod.Client
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithBackend replaces the Stripe API backend, e.g. to point at a test
// server.
func WithBackend(b stripe.Backend) Option {
	return func(t *Tokenizer) { t.client.B = b }
}

// NewTokenizer returns a Tokenizer authenticated with the secret key.
// A per-client key is used instead of the global stripe.Key so several
// tokenizers can coexist.
func NewTokenizer(secretKey string, opts ...Option) *Tokenizer {
	t := &Tokenizer{client: paymentmethod.Client{
		B:   stripe.GetBackend(stripe.APIBackend),
		Key: secretKey,
	}}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CreatePaymentMethod exchanges a card token for a payment method with the
// visitor's billing details attached.
func (t *Tokenizer) CreatePaymentMethod(ctx context.Context, card booking.CardDetails, billing booking.BillingDetails) (booking.PaymentMethodRef, error) {
	token := strings.TrimSpace(card.Token)
	if token == "" {
		return booking.PaymentMethodRef{}, &booking.PaymentError{
			Code:    "missing_card",
			Message: "card details are required",
		}
	}

	params := &stripe.PaymentMethodParams{
		Type: stripe.String(string(stripe.PaymentMethodTypeCard)),
		Card: &stripe.PaymentMethodCardParams{Token: stripe.String(token)},
		BillingDetails: &stripe.PaymentMethodBillingDetailsParams{
			Name:  optional(billing.Name),
			Email: optional(billing.Email),
			Phone: optional(billing.Phone),
		},
	}
	params.Context = ctx

	pm, err := t.client.New(params)
	if err != nil {
		return booking.PaymentMethodRef{}, translate(ctx, err)
	}

	ref := booking.PaymentMethodRef{ID: pm.ID}
	if pm.Card != nil {
		ref.Brand = string(pm.Card.Brand)
		ref.Last4 = pm.Card.Last4
	}
	return ref, nil
}

// translate maps Stripe errors onto booking.PaymentError.  Context
// errors are passed through so the workflow can classify timeouts.
func translate(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var serr *stripe.Error
	if errors.As(err, &serr) {
		code := string(serr.Code)
		if code == "" {
			code = string(serr.Type)
		}
		msg := serr.Msg
		if msg == "" {
			msg = "payment provider rejected the card"
		}
		return &booking.PaymentError{Code: code, Message: msg, Err: err}
	}
	return &booking.PaymentError{Code: "provider_unavailable", Message: "payment provider unavailable", Err: err}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return stripe.String(s)
}
