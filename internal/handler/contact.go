package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/raveworks-booking/internal/booking"
	"github.com/iliyamo/raveworks-booking/internal/model"
)

// ContactStore persists contact form submissions.
type ContactStore interface {
	CreateContact(ctx context.Context, rec model.ContactRecord) (model.ContactRecord, error)
}

// ContactHandler accepts the public contact form.
type ContactHandler struct {
	Contacts ContactStore
	Logger   *zap.Logger
}

// NewContactHandler constructs a ContactHandler and panics if the store
// is nil.
func NewContactHandler(s ContactStore, logger *zap.Logger) *ContactHandler {
	if s == nil {
		panic("nil store passed to NewContactHandler")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactHandler{Contacts: s, Logger: logger}
}

type contactReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Create stores a contact message.  Name, email and message are
// required.
func (h *ContactHandler) Create(c echo.Context) error {
	var req contactReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	rec := model.ContactRecord{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}

	fields := map[string]string{}
	if rec.Name == "" {
		fields["name"] = "required"
	}
	if rec.Email == "" {
		fields["email"] = "required"
	} else if !booking.PlausibleEmail(rec.Email) {
		fields["email"] = "invalid email address"
	}
	if rec.Message == "" {
		fields["message"] = "required"
	}
	if len(fields) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "validation failed", "fields": fields})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	stored, err := h.Contacts.CreateContact(ctx, rec)
	if err != nil {
		h.Logger.Error("store contact failed", zap.String("email", rec.Email), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not send message"})
	}
	return c.JSON(http.StatusCreated, stored)
}
