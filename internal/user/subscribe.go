package user

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/igwt-platform/igwt/internal/alerts"
	"github.com/igwt-platform/igwt/internal/httpx"
)

// Subscribe - POST /api/subscribe
// Activates the monthly plan that gates posting gigs and placing orders.
func (h *Handler) Subscribe(c echo.Context) error {
	uid, err := httpx.UserID(c)
	if err != nil {
		return httpx.Error(c, err)
	}

	sub, err := h.svc.Subscribe(c.Request().Context(), uid)
	if err != nil {
		return httpx.Error(c, err)
	}

	if u, err := h.svc.GetUser(c.Request().Context(), uid); err == nil && u.Email != "" {
		_ = alerts.EnqueueSubscriptionActive(u.ID, u.Email, sub.Amount, sub.ExpiryDate)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":      "Subscription activated",
		"subscription": sub,
	})
}
