package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/raveworks-booking/internal/handler"
	"github.com/iliyamo/raveworks-booking/internal/middleware"
)

// Deps are the handlers and middleware the router wires together.  A nil
// Cache or RateLimit leaves the corresponding routes unwrapped; a nil
// Ready or Metrics skips those endpoints.
type Deps struct {
	Logger    *zap.Logger
	Content   *handler.ContentHandler
	Sessions  *handler.SessionHandler
	Contacts  *handler.ContactHandler
	Admin     *handler.AdminHandler
	JWTSecret string

	Cache     echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
	Ready     echo.HandlerFunc
	Metrics   http.Handler
}

// New builds the Echo instance with every route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))
	// The orbital UI is served from its own origin.
	e.Use(echomw.CORS())

	RegisterRoutes(e, d.Ready, d.Metrics)
	RegisterPublic(e, d.Content, d.Contacts, d.Cache, d.RateLimit)
	RegisterSessions(e, d.Sessions, d.RateLimit)
	RegisterAdmin(e, d.Admin, d.JWTSecret)
	return e
}

// RegisterRoutes registers operational endpoints: health, readiness and
// metrics.
func RegisterRoutes(e *echo.Echo, ready echo.HandlerFunc, metrics http.Handler) {
	e.GET("/healthz", handler.Health)
	if ready != nil {
		e.GET("/readyz", ready)
	}
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
}

// RegisterPublic registers the unauthenticated catalog and contact
// endpoints.  Catalog reads go through the response cache; contact
// submissions are rate limited.
func RegisterPublic(e *echo.Echo, h *handler.ContentHandler, contacts *handler.ContactHandler, cache, limit echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if h != nil {
		var mw []echo.MiddlewareFunc
		if cache != nil {
			mw = append(mw, cache)
		}
		g.GET("/config", h.GetConfig, mw...)
		g.GET("/sections/:id", h.GetSection, mw...)
		g.GET("/services", h.ListServices, mw...)
	}
	if contacts != nil {
		var mw []echo.MiddlewareFunc
		if limit != nil {
			mw = append(mw, limit)
		}
		g.POST("/contacts", contacts.Create, mw...)
	}
}
