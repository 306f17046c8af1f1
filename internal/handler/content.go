package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/raveworks-booking/internal/booking"
	"github.com/iliyamo/raveworks-booking/internal/model"
)

// Catalog is the read side of the content catalog.
type Catalog interface {
	Normalize(raw string) model.SectionID
	Lookup(id model.SectionID) model.ContentEntry
	ListServices() []model.ServiceOffering
}

// ContentHandler serves the static catalog and the public client
// configuration.  Every response here is cacheable.
type ContentHandler struct {
	Catalog          Catalog
	PaymentPublicKey string
}

// NewContentHandler constructs a ContentHandler and panics if the catalog
// is nil.
func NewContentHandler(c Catalog, paymentPublicKey string) *ContentHandler {
	if c == nil {
		panic("nil catalog passed to NewContentHandler")
	}
	return &ContentHandler{Catalog: c, PaymentPublicKey: paymentPublicKey}
}

// GetConfig returns what the browser needs to render the booking form:
// the payment public key and the bookable time slots.
func (h *ContentHandler) GetConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"payment_public_key": h.PaymentPublicKey,
		"time_slots":         booking.TimeSlots,
	})
}

// GetSection returns the content for a section id.  Unknown ids resolve
// to the default entry, so this never returns 404.
func (h *ContentHandler) GetSection(c echo.Context) error {
	id := h.Catalog.Normalize(c.Param("id"))
	entry := h.Catalog.Lookup(id)
	return c.JSON(http.StatusOK, echo.Map{
		"id":    id,
		"title": entry.Title,
		"body":  entry.Body,
	})
}

// ListServices returns the service offerings in catalog order.
func (h *ContentHandler) ListServices(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"services": h.Catalog.ListServices()})
}
