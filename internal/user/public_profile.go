package user

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/igwt-platform/igwt/internal/httpx"
	"github.com/igwt-platform/igwt/internal/models"
	"github.com/igwt-platform/igwt/internal/store"
)

// GetPublicProfile - GET /api/users/:id
// Returns the profile together with the user's active gigs. Private
// fields (password hash, email) never leave the server here.
func (h *Handler) GetPublicProfile(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing user id"})
	}

	var (
		u    *models.User
		gigs []*models.Gig
	)
	err := h.store.View(c.Request().Context(), func(tx store.Tx) error {
		var err error
		u, err = tx.Users().GetByID(c.Request().Context(), userID)
		if err != nil {
			return err
		}
		gigs, err = tx.Gigs().ListByFreelancer(c.Request().Context(), userID)
		return err
	})
	if err != nil {
		return httpx.Error(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":                 u.ID,
		"username":           u.Username,
		"user_type":          u.UserType,
		"skills":             u.Skills,
		"rating":             u.Rating,
		"completed_projects": u.CompletedProjects,
		"portfolio":          u.Portfolio,
		"achievements":       u.Achievements,
		"past_work":          u.PastWork,
		"created_at":         u.CreatedAt,
		"gigs":               gigs,
	})
}
