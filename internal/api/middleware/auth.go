package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-service/internal/pkg/token"
)

// Context keys the Auth middleware populates.
const (
	CtxUsername  = "username"
	CtxRole      = "role"
	CtxExpiresAt = "token_expires_at"
)

// TokenVerifier checks a raw identity token and returns its claims.
type TokenVerifier interface {
	Verify(raw string) (*token.Claims, error)
}

// Auth validates the bearer identity token and injects its claims into the
// context. Every rejection is a 401 with no detail about why.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := verifier.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(CtxUsername, claims.Subject)
			c.Set(CtxRole, claims.Role)
			if claims.ExpiresAt != nil {
				c.Set(CtxExpiresAt, claims.ExpiresAt.Time)
			}

			return next(c)
		}
	}
}
