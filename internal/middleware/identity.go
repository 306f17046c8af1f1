package middleware

// identity.go holds the helpers that decide who a request belongs to.
// They feed the rate limiter keys.

import "github.com/labstack/echo/v4"

// Context keys set by JWTAuth.
const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// currentUserID returns the authenticated subject, or "anon".
func currentUserID(c echo.Context) string {
	if s, ok := c.Get(ctxUserID).(string); ok && s != "" {
		return s
	}
	return "anon"
}

// currentSessionID returns the visitor session named in the path, or
// "none" outside session routes.
func currentSessionID(c echo.Context) string {
	if id := c.Param("id"); id != "" {
		return id
	}
	return "none"
}
