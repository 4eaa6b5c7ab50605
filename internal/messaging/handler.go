package messaging

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/igwt-platform/igwt/internal/alerts"
	"github.com/igwt-platform/igwt/internal/httpx"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// SendMessage - POST /api/messages
func (h *Handler) SendMessage(c echo.Context) error {
	uid, err := httpx.UserID(c)
	if err != nil {
		return httpx.Error(c, err)
	}

	var req struct {
		OrderID string `json:"order_id"`
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil || req.OrderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_id required"})
	}

	msg, recipient, err := h.svc.SendMessage(c.Request().Context(), uid, req.OrderID, req.Content)
	if err != nil {
		return httpx.Error(c, err)
	}

	BroadcastNewMessage(msg.OrderID, msg)

	if recipient != nil && recipient.Email != "" {
		_ = alerts.EnqueueMessageNew(msg.OrderID, uid, recipient.Email, recipient.ID, msg.Content)
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": msg})
}

// ListMessages - GET /api/orders/:orderId/messages
func (h *Handler) ListMessages(c echo.Context) error {
	uid, err := httpx.UserID(c)
	if err != nil {
		return httpx.Error(c, err)
	}

	msgs, err := h.svc.ListMessages(c.Request().Context(), uid, c.Param("orderId"))
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": msgs})
}
