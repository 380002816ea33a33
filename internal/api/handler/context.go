package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-service/internal/api/middleware"
)

// ctxClaims extracts the claims injected by the Auth middleware. Both subject
// and role must be present; their absence means the middleware did not run.
func ctxClaims(c echo.Context) (username, role string, err error) {
	username, _ = c.Get(middleware.CtxUsername).(string)
	role, _ = c.Get(middleware.CtxRole).(string)
	if username == "" || role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return username, role, nil
}

func ctxExpiresAt(c echo.Context) time.Time {
	exp, _ := c.Get(middleware.CtxExpiresAt).(time.Time)
	return exp
}
