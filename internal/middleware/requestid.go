package middleware

import (
	"regexp"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/agency-web/internal/brightlocal"
)

// Incoming ids end up in logs and provider headers, so only plain tokens are reused.
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

// RequestID tags every request with an id, reusing a well-formed X-Request-ID from the caller.
// The id travels on the request context so provider calls forward it.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rid := req.Header.Get(echo.HeaderXRequestID)
			if !requestIDPattern.MatchString(rid) {
				rid = uuid.NewString()
			}

			c.Set(ContextKeyRequestID, rid)
			c.Response().Header().Set(echo.HeaderXRequestID, rid)
			c.SetRequest(req.WithContext(brightlocal.WithRequestID(req.Context(), rid)))

			return next(c)
		}
	}
}

// RequestIDFromContext returns the id assigned by RequestID, or "".
func RequestIDFromContext(c echo.Context) string {
	rid, _ := c.Get(ContextKeyRequestID).(string)
	return rid
}
