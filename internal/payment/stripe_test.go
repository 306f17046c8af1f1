package payment_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"

	"github.com/iliyamo/raveworks-booking/internal/booking"
	"github.com/iliyamo/raveworks-booking/internal/payment"
)

func newTestTokenizer(t *testing.T, h http.HandlerFunc) *payment.Tokenizer {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	retries := int64(0)
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		HTTPClient:        srv.Client(),
		MaxNetworkRetries: &retries,
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return payment.NewTokenizer("sk_test_123", payment.WithBackend(backend))
}

func TestCreatePaymentMethod(t *testing.T) {
	var form url.Values
	tok := newTestTokenizer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_methods", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		form, _ = url.ParseQuery(string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"pm_1","object":"payment_method","type":"card","card":{"brand":"visa","last4":"4242"}}`)
	})

	ref, err := tok.CreatePaymentMethod(context.Background(),
		booking.CardDetails{Token: "tok_visa"},
		booking.BillingDetails{Name: "Ada Lovelace", Email: "ada@example.com"},
	)
	require.NoError(t, err)
	assert.Equal(t, booking.PaymentMethodRef{ID: "pm_1", Brand: "visa", Last4: "4242"}, ref)

	assert.Equal(t, "card", form.Get("type"))
	assert.Equal(t, "tok_visa", form.Get("card[token]"))
	assert.Equal(t, "Ada Lovelace", form.Get("billing_details[name]"))
	assert.Equal(t, "ada@example.com", form.Get("billing_details[email]"))
	_, hasPhone := form["billing_details[phone]"]
	assert.False(t, hasPhone, "empty phone is not sent")
}

func TestCreatePaymentMethod_CardDeclined(t *testing.T) {
	tok := newTestTokenizer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = io.WriteString(w, `{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`)
	})

	_, err := tok.CreatePaymentMethod(context.Background(), booking.CardDetails{Token: "tok_chargeDeclined"}, booking.BillingDetails{})
	var perr *booking.PaymentError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "card_declined", perr.Code)
	assert.Equal(t, "Your card was declined.", perr.Message)
}

func TestCreatePaymentMethod_MissingToken(t *testing.T) {
	called := false
	tok := newTestTokenizer(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	_, err := tok.CreatePaymentMethod(context.Background(), booking.CardDetails{Token: "  "}, booking.BillingDetails{})
	var perr *booking.PaymentError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "missing_card", perr.Code)
	assert.False(t, called)
}

func TestCreatePaymentMethod_ContextDeadline(t *testing.T) {
	tok := newTestTokenizer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := tok.CreatePaymentMethod(ctx, booking.CardDetails{Token: "tok_visa"}, booking.BillingDetails{})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
