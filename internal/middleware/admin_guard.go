package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminGuard rejects requests whose token does not carry the admin role.
// It must run after JWT, which puts the role on the context.
func AdminGuard(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, _ := c.Get("role").(string)
		if role != "admin" {
			return c.JSON(http.StatusForbidden, echo.Map{
				"error": "admin access only",
			})
		}
		return next(c)
	}
}
