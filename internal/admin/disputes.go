package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/igwt-platform/igwt/internal/alerts"
	"github.com/igwt-platform/igwt/internal/httpx"
	"github.com/igwt-platform/igwt/internal/marketplace"
)

// Handler serves the admin arbitration and platform overview endpoints.
// Routes mount behind the admin guard, so callers are already vetted.
type Handler struct {
	svc *marketplace.Service
}

func NewHandler(svc *marketplace.Service) *Handler { return &Handler{svc: svc} }

// ListDisputes - GET /admin/disputes
func (h *Handler) ListDisputes(c echo.Context) error {
	disputes, err := h.svc.ListDisputes(c.Request().Context())
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"disputes": disputes})
}

// ResolveDispute - POST /admin/disputes/:id/resolve
func (h *Handler) ResolveDispute(c echo.Context) error {
	uid, err := httpx.UserID(c)
	if err != nil {
		return httpx.Error(c, err)
	}

	var req struct {
		Resolution string `json:"resolution"`
		Notes      string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	dispute, order, err := h.svc.ResolveDispute(c.Request().Context(), uid, c.Param("id"), req.Resolution, req.Notes)
	if err != nil {
		return httpx.Error(c, err)
	}

	// Notify both participants of the outcome (best-effort)
	for _, pid := range []string{order.ClientID, order.FreelancerID} {
		if u, err := h.svc.GetUser(c.Request().Context(), pid); err == nil && u.Email != "" {
			_ = alerts.EnqueueDisputeResolved(dispute.ID, order.ID, u.Email, dispute.Resolution)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Dispute resolved",
		"dispute": dispute,
		"order":   order,
	})
}
