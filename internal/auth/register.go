package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/igwt-platform/igwt/internal/alerts"
	"github.com/igwt-platform/igwt/internal/httpx"
	"github.com/igwt-platform/igwt/internal/models"
	"github.com/igwt-platform/igwt/internal/shared"
	"github.com/igwt-platform/igwt/internal/store"
)

type RegisterRequest struct {
	Username string   `json:"username" validate:"required"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
	UserType string   `json:"user_type" validate:"required"`
	Skills   []string `json:"skills"`
}

// Register - POST /api/register
func (h *Handler) Register(c echo.Context) error {
	req := new(RegisterRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Username == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and email are required"})
	}
	if len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
	}
	if req.UserType != models.UserTypeFreelancer && req.UserType != models.UserTypeClient {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_type must be freelancer or client"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	skills := req.Skills
	if skills == nil {
		skills = []string{}
	}
	user := &models.User{
		ID:                 uuid.New().String(),
		Username:           req.Username,
		Email:              req.Email,
		Password:           string(hashed),
		UserType:           req.UserType,
		Role:               models.RoleUser,
		Skills:             skills,
		Portfolio:          []models.PortfolioItem{},
		Achievements:       []models.PortfolioItem{},
		PastWork:           []models.PortfolioItem{},
		SubscriptionStatus: models.SubscriptionInactive,
		CreatedAt:          time.Now().UTC(),
	}

	err = h.store.Update(c.Request().Context(), func(tx store.Tx) error {
		if _, err := tx.Users().GetByEmail(c.Request().Context(), req.Email); err == nil {
			return fmt.Errorf("%w: email already registered", shared.ErrConflict)
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		return tx.Users().Create(c.Request().Context(), user)
	})
	if err != nil {
		return httpx.Error(c, err)
	}

	signed, err := h.issueToken(user.ID, user.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}

	_ = alerts.EnqueueWelcomeEmail(user.ID, user.Email, user.Username)

	return c.JSON(http.StatusCreated, echo.Map{"token": signed, "user": user})
}
