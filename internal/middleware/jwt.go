package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	authpkg "github.com/octobees/agency-web/internal/auth"
)

// JWT validates bearer tokens and stores operator metadata in the request context.
func JWT(manager *authpkg.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return reject(c, http.StatusUnauthorized, "missing authorization header")
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				return reject(c, http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := manager.ParseToken(strings.TrimSpace(token))
			if err != nil {
				return reject(c, http.StatusUnauthorized, "invalid token")
			}

			c.Set(ContextKeyOperatorID, claims.Subject)
			c.Set(ContextKeyOperatorEmail, claims.Email)
			c.Set(ContextKeyOperatorRole, claims.Role)

			return next(c)
		}
	}
}
