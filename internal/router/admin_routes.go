package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/raveworks-booking/internal/handler"
	"github.com/iliyamo/raveworks-booking/internal/middleware"
	"github.com/iliyamo/raveworks-booking/internal/utils"
)

// RegisterAdmin registers the back office endpoints.  Login is public;
// everything else requires a valid JWT with the ADMIN role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	if h == nil {
		return
	}
	e.POST("/v1/admin/login", h.Login)

	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleAdmin),
	)
	g.GET("/bookings", h.ListBookings)
	g.PATCH("/bookings/:id/status", h.UpdateStatus)
}
