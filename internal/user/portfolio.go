package user

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/igwt-platform/igwt/internal/httpx"
	"github.com/igwt-platform/igwt/internal/models"
	"github.com/igwt-platform/igwt/internal/store"
)

type PortfolioRequest struct {
	Type        string `json:"type"` // project | achievement | pastWork
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	ProjectURL  string `json:"project_url"`
}

// AddPortfolioItem - POST /api/portfolio
// Showcase entries are append-only; there is no edit or delete.
func (h *Handler) AddPortfolioItem(c echo.Context) error {
	uid, err := httpx.UserID(c)
	if err != nil {
		return httpx.Error(c, err)
	}

	var req PortfolioRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	switch req.Type {
	case "project", "achievement", "pastWork":
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be project, achievement or pastWork"})
	}

	item := models.PortfolioItem{
		ID:          uuid.New().String(),
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		ProjectURL:  req.ProjectURL,
		CreatedAt:   time.Now().UTC(),
	}

	err = h.store.Update(c.Request().Context(), func(tx store.Tx) error {
		u, err := tx.Users().GetByID(c.Request().Context(), uid)
		if err != nil {
			return err
		}
		switch req.Type {
		case "project":
			u.Portfolio = append(u.Portfolio, item)
		case "achievement":
			u.Achievements = append(u.Achievements, item)
		case "pastWork":
			u.PastWork = append(u.PastWork, item)
		}
		return tx.Users().Update(c.Request().Context(), u)
	})
	if err != nil {
		return httpx.Error(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "portfolio updated successfully", "item": item})
}
