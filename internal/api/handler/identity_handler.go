package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-service/internal/core/domain"
)

// SnapshotStatsProvider exposes the loaded credential snapshot summary.
type SnapshotStatsProvider interface {
	Stats() domain.SnapshotStats
}

// IdentityHandler serves endpoints for callers already holding a token.
type IdentityHandler struct {
	snapshot SnapshotStatsProvider
}

func NewIdentityHandler(snapshot SnapshotStatsProvider) *IdentityHandler {
	return &IdentityHandler{snapshot: snapshot}
}

type meResponse struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Me returns the identity asserted by the bearer token.
//
// @Summary      Current identity
// @Tags         identity
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/me [get]
func (h *IdentityHandler) Me(c echo.Context) error {
	username, role, err := ctxClaims(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{
		Username:  username,
		Role:      role,
		ExpiresAt: ctxExpiresAt(c),
	})
}

// SnapshotStats reports the size and origin of the credential snapshot.
// No record content is returned.
//
// @Summary      Credential snapshot stats
// @Tags         identity
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.SnapshotStats
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/identities/snapshot [get]
func (h *IdentityHandler) SnapshotStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.snapshot.Stats())
}
