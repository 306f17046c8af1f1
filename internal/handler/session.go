package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/raveworks-booking/internal/booking"
	"github.com/iliyamo/raveworks-booking/internal/session"
	"github.com/iliyamo/raveworks-booking/internal/view"
)

// SessionHandler exposes visitor gestures: section selection, overlay
// close/escape and the booking form.  Every successful gesture responds
// with the view the overlay should render next.
type SessionHandler struct {
	Sessions *session.Manager
	Logger   *zap.Logger
}

// NewSessionHandler constructs a SessionHandler and panics if the manager
// is nil.
func NewSessionHandler(m *session.Manager, logger *zap.Logger) *SessionHandler {
	if m == nil {
		panic("nil session manager passed to NewSessionHandler")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{Sessions: m, Logger: logger}
}

type sessionResp struct {
	ID   string       `json:"id"`
	View view.Display `json:"view"`
}

type selectReq struct {
	Section string `json:"section"`
}

type beginReq struct {
	ServiceID int `json:"service_id"`
}

type updateReq struct {
	Field  string            `json:"field"`
	Value  string            `json:"value"`
	Fields map[string]string `json:"fields"`
}

type submitReq struct {
	CardToken string `json:"card_token"`
}

func (h *SessionHandler) session(c echo.Context) (*session.Session, error) {
	return h.Sessions.Get(c.Param("id"))
}

func viewOf(c echo.Context, s *session.Session, status int) error {
	return c.JSON(status, sessionResp{ID: s.ID, View: s.View()})
}

// Create starts a new visitor session with the overlay closed.
func (h *SessionHandler) Create(c echo.Context) error {
	return viewOf(c, h.Sessions.Create(), http.StatusCreated)
}

// Get returns the current view of a session.
func (h *SessionHandler) Get(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return gestureError(c, err)
	}
	return viewOf(c, s, http.StatusOK)
}

// Delete ends a session.
func (h *SessionHandler) Delete(c echo.Context) error {
	if err := h.Sessions.Delete(c.Param("id")); err != nil {
		return gestureError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Select opens the overlay on a section.
func (h *SessionHandler) Select(c echo.Context) error {
	var req selectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	s, err := h.session(c)
	if err != nil {
		return gestureError(c, err)
	}
	if err := s.Select(req.Section); err != nil {
		return gestureError(c, err)
	}
	return viewOf(c, s, http.StatusOK)
}

// Close hides the overlay.
func (h *SessionHandler) Close(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return gestureError(c, err)
	}
	if err := s.Close(); err != nil {
		return gestureError(c, err)
	}
	return viewOf(c, s, http.StatusOK)
}

// Escape handles the escape key.
func (h *SessionHandler) Escape(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return gestureError(c, err)
	}
	if err := s.Escape(); err != nil {
		return gestureError(c, err)
	}
	return viewOf(c, s, http.StatusOK)
}

// BeginBooking opens the booking form for a service.
func (h *SessionHandler) BeginBooking(c echo.Context) error {
	var req beginReq
	if err := c.Bind(&req); err != nil || req.ServiceID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "service_id required"})
	}
	s, err := h.session(c)
	if err != nil {
		return gestureError(c, err)
	}
	if _, err := s.BeginBooking(req.ServiceID); err != nil {
		return gestureError(c, err)
	}
	return viewOf(c, s, http.StatusOK)
}

// UpdateBooking edits one field ({field, value}) or several ({fields}).
func (h *SessionHandler) UpdateBooking(c echo.Context) error {
	var req updateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	fields := req.Fields
	if fields == nil {
		fields = map[string]string{}
	}
	if req.Field != "" {
		fields[req.Field] = req.Value
	}
	if len(fields) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "field or fields required"})
	}
	s, err := h.session(c)
	if err != nil {
		return gestureError(c, err)
	}
	if err := s.UpdateFields(fields); err != nil {
		return gestureError(c, err)
	}
	return viewOf(c, s, http.StatusOK)
}

// SubmitBooking submits the booking form.
//
//	201 booking confirmed (with "warning" when it could not be stored)
//	402 payment failed
//	422 validation failed
func (h *SessionHandler) SubmitBooking(c echo.Context) error {
	var req submitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	s, err := h.session(c)
	if err != nil {
		return gestureError(c, err)
	}

	out, err := s.Submit(c.Request().Context(), booking.CardDetails{Token: req.CardToken})
	if err != nil {
		return gestureError(c, err)
	}

	resp := echo.Map{"id": s.ID, "outcome": out.Kind, "view": s.View()}
	switch out.Kind {
	case booking.OutcomeSucceeded:
		resp["booking"] = out.Record
		resp["payment_method"] = out.PaymentMethod
		return c.JSON(http.StatusCreated, resp)

	case booking.OutcomeSucceededDegraded:
		resp["booking"] = out.Record
		resp["payment_method"] = out.PaymentMethod
		resp["warning"] = view.DegradedWarning
		return c.JSON(http.StatusCreated, resp)
	}

	var verr *booking.ValidationError
	var perr *booking.PaymentError
	switch {
	case errors.As(out.Reason, &verr):
		resp["error"] = "validation failed"
		resp["fields"] = verr.Fields
		return c.JSON(http.StatusUnprocessableEntity, resp)
	case errors.As(out.Reason, &perr):
		msg := perr.Message
		if msg == "" {
			msg = "payment failed"
		}
		resp["error"] = msg
		resp["code"] = perr.Code
		h.Logger.Info("payment failed", zap.String("session", s.ID), zap.String("code", perr.Code), zap.Error(perr))
		return c.JSON(http.StatusPaymentRequired, resp)
	}
	h.Logger.Error("unexpected booking failure", zap.String("session", s.ID), zap.Error(out.Reason))
	resp["error"] = "booking failed"
	return c.JSON(http.StatusInternalServerError, resp)
}

// CancelBooking discards the booking draft.
func (h *SessionHandler) CancelBooking(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return gestureError(c, err)
	}
	if err := s.CancelBooking(); err != nil {
		return gestureError(c, err)
	}
	return viewOf(c, s, http.StatusOK)
}
