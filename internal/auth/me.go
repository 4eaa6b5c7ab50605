package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/igwt-platform/igwt/internal/httpx"
	"github.com/igwt-platform/igwt/internal/models"
	"github.com/igwt-platform/igwt/internal/store"
)

// Me - GET /api/me, returns the authenticated user's own profile.
func (h *Handler) Me(c echo.Context) error {
	uid, err := httpx.UserID(c)
	if err != nil {
		return httpx.Error(c, err)
	}

	var user *models.User
	err = h.store.View(c.Request().Context(), func(tx store.Tx) error {
		var err error
		user, err = tx.Users().GetByID(c.Request().Context(), uid)
		return err
	})
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	return c.JSON(http.StatusOK, user)
}
