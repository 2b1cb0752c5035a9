package middleware

import "github.com/labstack/echo/v4"

// Context keys used to store authentication metadata.
const (
	ContextKeyOperatorID    = "operator_id"
	ContextKeyOperatorEmail = "operator_email"
	ContextKeyOperatorRole  = "operator_role"
	ContextKeyRequestID     = "request_id"
)

func reject(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"status": "error", "error": msg})
}
