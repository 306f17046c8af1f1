package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/raveworks-booking/internal/handler"
)

// RegisterSessions registers the visitor session endpoints under
// /v1/sessions.  Sessions are anonymous; the session id in the path is
// the only credential.  Booking submission is rate limited because every
// call reaches the payment provider.
func RegisterSessions(e *echo.Echo, h *handler.SessionHandler, limit echo.MiddlewareFunc) {
	if h == nil {
		return
	}
	g := e.Group("/v1/sessions")
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Delete)

	// ---- Navigation ----
	g.POST("/:id/select", h.Select)
	g.POST("/:id/close", h.Close)
	g.POST("/:id/escape", h.Escape)

	// ---- Booking ----
	g.POST("/:id/booking", h.BeginBooking)
	g.PATCH("/:id/booking", h.UpdateBooking)
	g.DELETE("/:id/booking", h.CancelBooking)
	if limit != nil {
		g.POST("/:id/booking/submit", h.SubmitBooking, limit)
	} else {
		g.POST("/:id/booking/submit", h.SubmitBooking)
	}
}
