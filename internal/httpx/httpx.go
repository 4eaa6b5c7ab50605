// Package httpx maps the platform's error kinds onto HTTP responses.
package httpx

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/igwt-platform/igwt/internal/shared"
)

// Error writes the classified failure for err. Unclassified errors are
// logged and reported as a generic internal failure so internals never leak
// to the caller.
func Error(c echo.Context, err error) error {
	switch {
	case errors.Is(err, shared.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.Is(err, shared.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, shared.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, shared.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, shared.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// UserID returns the authenticated user id set by the JWT middleware.
func UserID(c echo.Context) (string, error) {
	id, ok := c.Get("user_id").(string)
	if !ok || id == "" {
		return "", shared.ErrUnauthenticated
	}
	return id, nil
}
