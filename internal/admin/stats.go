package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/igwt-platform/igwt/internal/httpx"
)

// Stats - GET /admin/stats
func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"users":    stats.Users,
		"gigs":     stats.Gigs,
		"orders":   stats.Orders,
		"disputes": stats.Disputes,
	})
}
