package router_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/raveworks-booking/internal/booking"
	"github.com/iliyamo/raveworks-booking/internal/catalog"
	"github.com/iliyamo/raveworks-booking/internal/config"
	"github.com/iliyamo/raveworks-booking/internal/database"
	"github.com/iliyamo/raveworks-booking/internal/handler"
	"github.com/iliyamo/raveworks-booking/internal/metrics"
	"github.com/iliyamo/raveworks-booking/internal/model"
	"github.com/iliyamo/raveworks-booking/internal/repository"
	"github.com/iliyamo/raveworks-booking/internal/router"
	"github.com/iliyamo/raveworks-booking/internal/session"
	"github.com/iliyamo/raveworks-booking/internal/utils"
)

// fakePayments declines tok_chargeDeclined and accepts everything else.
type fakePayments struct{}

func (fakePayments) CreatePaymentMethod(_ context.Context, card booking.CardDetails, _ booking.BillingDetails) (booking.PaymentMethodRef, error) {
	if card.Token == "tok_chargeDeclined" {
		return booking.PaymentMethodRef{}, &booking.PaymentError{Code: "card_declined", Message: "Your card was declined."}
	}
	return booking.PaymentMethodRef{ID: "pm_" + card.Token, Brand: "visa", Last4: "4242"}, nil
}

// brokenStore fails every write.
type brokenStore struct{}

func (brokenStore) CreateBooking(context.Context, model.BookingRecord) (model.BookingRecord, error) {
	return model.BookingRecord{}, errors.New("connection refused")
}

type env struct {
	e       *echo.Echo
	gateway *repository.Gateway
	metrics *metrics.Reporter
}

func newEnv(t *testing.T, store booking.Gateway) env {
	t.Helper()
	ctx := context.Background()
	db, driver, err := database.Open(ctx, "sqlite://:memory:", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(ctx, db, driver))
	gw := repository.NewGateway(db)
	if store == nil {
		store = gw
	}

	cat, err := catalog.Load()
	require.NoError(t, err)
	rep := metrics.NewReporter()
	today := func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) }
	sessions := session.NewManager(cat, func() *booking.Workflow {
		return booking.New(cat, fakePayments{}, store,
			booking.WithLogger(zap.NewNop()),
			booking.WithReporter(rep),
			booking.WithClock(today),
			booking.WithTimeouts(time.Second, time.Second),
		)
	})

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	cfg := config.Config{
		JWTSecret:         "s3cret",
		AdminEmail:        "ops@raveworks.example",
		AdminPasswordHash: string(hash),
		AccessTTLMin:      15,
	}

	e := router.New(router.Deps{
		Content:   handler.NewContentHandler(cat, "pk_test_123"),
		Sessions:  handler.NewSessionHandler(sessions, nil),
		Contacts:  handler.NewContactHandler(gw, nil),
		Admin:     handler.NewAdminHandler(cfg, gw, nil),
		JWTSecret: cfg.JWTSecret,
		Ready:     handler.Ready(db),
		Metrics:   rep.Handler(),
	})
	return env{e: e, gateway: gw, metrics: rep}
}

func (v env) call(t *testing.T, method, path, body string, header ...string) (int, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	v.e.ServeHTTP(rec, req)

	out := map[string]any{}
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func viewKind(body map[string]any) any {
	v, _ := body["view"].(map[string]any)
	return v["kind"]
}

func (v env) newSession(t *testing.T) string {
	t.Helper()
	code, body := v.call(t, http.MethodPost, "/v1/sessions", "")
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "default", viewKind(body))
	return body["id"].(string)
}

func (v env) fillBooking(t *testing.T, id string) {
	t.Helper()
	code, _ := v.call(t, http.MethodPost, "/v1/sessions/"+id+"/booking", `{"service_id":1}`)
	require.Equal(t, http.StatusOK, code)
	code, _ = v.call(t, http.MethodPatch, "/v1/sessions/"+id+"/booking",
		`{"fields":{"name":"Ada Lovelace","email":"ada@example.com","date":"2026-11-02","time":"10:00"}}`)
	require.Equal(t, http.StatusOK, code)
}

func TestHealthAndContent(t *testing.T) {
	v := newEnv(t, nil)

	rec := httptest.NewRecorder()
	v.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "ok", rec.Body.String())

	code, _ := v.call(t, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, code)

	code, body := v.call(t, http.MethodGet, "/v1/config", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pk_test_123", body["payment_public_key"])
	assert.Len(t, body["time_slots"], 7)

	_, body = v.call(t, http.MethodGet, "/v1/sections/raves", "")
	assert.Equal(t, "rave", body["id"])

	code, body = v.call(t, http.MethodGet, "/v1/sections/nope", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Welcome to Raveworks", body["title"])

	_, body = v.call(t, http.MethodGet, "/v1/services", "")
	assert.Len(t, body["services"], 3)
}

func TestNavigationGestures(t *testing.T) {
	v := newEnv(t, nil)
	id := v.newSession(t)

	code, body := v.call(t, http.MethodPost, "/v1/sessions/"+id+"/select", `{"section":"mbse"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "section", viewKind(body))

	code, _ = v.call(t, http.MethodPost, "/v1/sessions/"+id+"/select", `{"section":"careers"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = v.call(t, http.MethodPost, "/v1/sessions/"+id+"/escape", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "default", viewKind(body))
	assert.Equal(t, false, body["view"].(map[string]any)["visible"])

	code, _ = v.call(t, http.MethodGet, "/v1/sessions/unknown", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = v.call(t, http.MethodDelete, "/v1/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = v.call(t, http.MethodPost, "/v1/sessions/"+id+"/close", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestBookingFlow_Succeeds(t *testing.T) {
	v := newEnv(t, nil)
	id := v.newSession(t)
	v.fillBooking(t, id)

	code, body := v.call(t, http.MethodPost, "/v1/sessions/"+id+"/booking/submit", `{"card_token":"tok_visa"}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "succeeded", body["outcome"])
	assert.Equal(t, "success", viewKind(body))
	assert.Nil(t, body["warning"])

	list, err := v.gateway.ListBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "pm_tok_visa", list[0].PaymentMethodID)
	assert.Equal(t, 200, list[0].ServicePrice)

	// the form is gone once confirmed
	code, _ = v.call(t, http.MethodPatch, "/v1/sessions/"+id+"/booking", `{"field":"name","value":"x"}`)
	assert.Equal(t, http.StatusConflict, code)

	// closing the overlay resets everything
	code, body = v.call(t, http.MethodPost, "/v1/sessions/"+id+"/close", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "default", viewKind(body))
}

func TestBookingFlow_ValidationAndPaymentFailures(t *testing.T) {
	v := newEnv(t, nil)
	id := v.newSession(t)

	code, _ := v.call(t, http.MethodPost, "/v1/sessions/"+id+"/booking", `{"service_id":42}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = v.call(t, http.MethodPost, "/v1/sessions/"+id+"/booking", `{"service_id":2}`)
	require.Equal(t, http.StatusOK, code)

	code, body := v.call(t, http.MethodPost, "/v1/sessions/"+id+"/booking/submit", `{"card_token":"tok_visa"}`)
	require.Equal(t, http.StatusUnprocessableEntity, code)
	fields := body["fields"].(map[string]any)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Equal(t, "booking_form", viewKind(body))

	code, _ = v.call(t, http.MethodPatch, "/v1/sessions/"+id+"/booking", `{"field":"favourite_colour","value":"blue"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	v.fillBooking(t, id)
	code, body = v.call(t, http.MethodPost, "/v1/sessions/"+id+"/booking/submit", `{"card_token":"tok_chargeDeclined"}`)
	require.Equal(t, http.StatusPaymentRequired, code)
	assert.Equal(t, "card_declined", body["code"])
	assert.Equal(t, "booking_form", viewKind(body))

	list, err := v.gateway.ListBookings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)

	code, body = v.call(t, http.MethodDelete, "/v1/sessions/"+id+"/booking", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "section", viewKind(body))
}

func TestBookingFlow_DegradesWhenStoreFails(t *testing.T) {
	v := newEnv(t, brokenStore{})
	id := v.newSession(t)
	v.fillBooking(t, id)

	code, body := v.call(t, http.MethodPost, "/v1/sessions/"+id+"/booking/submit", `{"card_token":"tok_visa"}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "succeeded_degraded", body["outcome"])
	assert.NotEmpty(t, body["warning"])
	assert.Equal(t, "success", viewKind(body))

	rec := httptest.NewRecorder()
	v.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "raveworks_booking_persistence_failures_total 1")
}

func TestContacts(t *testing.T) {
	v := newEnv(t, nil)

	code, body := v.call(t, http.MethodPost, "/v1/contacts", `{"name":"","email":"nope","message":""}`)
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Len(t, body["fields"], 3)

	for _, email := range []string{"Ada <ada@example.com>", "ada@x"} {
		code, body = v.call(t, http.MethodPost, "/v1/contacts",
			`{"name":"Ada","email":"`+email+`","message":"Tell me about RAVE"}`)
		require.Equal(t, http.StatusUnprocessableEntity, code, email)
		assert.Equal(t, map[string]any{"email": "invalid email address"}, body["fields"], email)
	}

	code, body = v.call(t, http.MethodPost, "/v1/contacts",
		`{"name":"Ada","email":"ada@example.com","subject":"Hi","message":"Tell me about RAVE"}`)
	require.Equal(t, http.StatusCreated, code)
	assert.NotEmpty(t, body["id"])
}

func TestAdmin(t *testing.T) {
	v := newEnv(t, nil)
	stored, err := v.gateway.CreateBooking(context.Background(), model.BookingRecord{
		Name: "Ada", Email: "ada@example.com", ServiceType: 1, ServiceName: "Initial Consultation",
		ServicePrice: 200, PreferredDate: "2026-11-02", PreferredTime: "10:00",
	})
	require.NoError(t, err)

	code, _ := v.call(t, http.MethodGet, "/v1/admin/bookings", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = v.call(t, http.MethodPost, "/v1/admin/login", `{"email":"ops@raveworks.example","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := v.call(t, http.MethodPost, "/v1/admin/login", `{"email":"OPS@raveworks.example","password":"hunter22"}`)
	require.Equal(t, http.StatusOK, code)
	auth := []string{"Authorization", "Bearer " + body["token"].(string)}

	code, body = v.call(t, http.MethodGet, "/v1/admin/bookings", "", auth...)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["bookings"], 1)

	code, body = v.call(t, http.MethodPatch, "/v1/admin/bookings/"+stored.ID+"/status", `{"status":"Confirmed"}`, auth...)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "confirmed", body["status"])

	code, _ = v.call(t, http.MethodPatch, "/v1/admin/bookings/"+stored.ID+"/status", `{"status":"archived"}`, auth...)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = v.call(t, http.MethodPatch, "/v1/admin/bookings/missing/status", `{"status":"cancelled"}`, auth...)
	assert.Equal(t, http.StatusNotFound, code)

	visitor, err := utils.NewAccessToken("s3cret", "visitor", "CUSTOMER", 5, time.Now())
	require.NoError(t, err)
	code, _ = v.call(t, http.MethodGet, "/v1/admin/bookings", "", "Authorization", "Bearer "+visitor.Token)
	assert.Equal(t, http.StatusForbidden, code)
}
