package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/raveworks-booking/internal/booking"
	"github.com/iliyamo/raveworks-booking/internal/session"
)

// gestureError maps session and workflow errors onto HTTP responses.
func gestureError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	case errors.Is(err, session.ErrUnknownSection):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown section"})
	case errors.Is(err, booking.ErrUnknownService):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown service"})
	case errors.Is(err, booking.ErrUnknownField):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown field"})
	case errors.Is(err, booking.ErrBusy):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking submission in progress"})
	case errors.Is(err, booking.ErrInvalidState):
		return c.JSON(http.StatusConflict, echo.Map{"error": "not allowed in the current booking state"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
