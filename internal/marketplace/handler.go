package marketplace

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/igwt-platform/igwt/internal/alerts"
	"github.com/igwt-platform/igwt/internal/httpx"
	"github.com/igwt-platform/igwt/internal/messaging"
	"github.com/igwt-platform/igwt/internal/models"
	"github.com/igwt-platform/igwt/internal/store"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// CreateGig - POST /api/gigs
func (h *Handler) CreateGig(c echo.Context) error {
	uid, err := httpx.UserID(c)
	if err != nil {
		return httpx.Error(c, err)
	}
	var req GigInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	gig, err := h.svc.CreateGig(c.Request().Context(), uid, req)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "gig created successfully", "gig": gig})
}

// ListGigs - GET /api/gigs (public discovery)
func (h *Handler) ListGigs(c echo.Context) error {
	f := store.GigFilter{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
	}
	if v := c.QueryParam("min_price"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.MinPrice = n
		}
	}
	if v := c.QueryParam("max_price"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.MaxPrice = n
		}
	}
	gigs, err := h.svc.ListGigs(c.Request().Context(), f)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"gigs": gigs})
}

// GetGig - GET /api/gigs/:id
func (h *Handler) GetGig(c echo.Context) error {
	gig, freelancer, reviews, err := h.svc.GetGig(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"gig":        gig,
		"freelancer": freelancer,
		"reviews":    reviews,
	})
}

// CreateOrder - POST /api/orders
func (h *Handler) CreateOrder(c echo.Context) error {
	uid, err := httpx.UserID(c)
	if err != nil {
		return httpx.Error(c, err)
	}
	var req struct {
		GigID        string `json:"gig_id"`
		Requirements string `json:"requirements"`
		Instructions string `json:"instructions"`
	}
	if err := c.Bind(&req); err != nil || req.GigID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid gig_id"})
	}
	order, escrow, err := h.svc.PlaceOrder(c.Request().Context(), uid, req.GigID, req.Requirements, req.Instructions)
	if err != nil {
		return httpx.Error(c, err)
	}

	// Notify the freelancer of the new order (best-effort)
	if freelancer, err := h.svc.GetUser(c.Request().Context(), order.FreelancerID); err == nil && freelancer.Email != "" {
		_ = alerts.EnqueueOrderPlaced(order.ID, order.ClientID, order.FreelancerID, freelancer.Email, order.Price)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Order placed successfully with escrow protection",
		"order":   order,
		"escrow":  escrow,
	})
}

// ListOrders - GET /api/orders
func (h *Handler) ListOrders(c echo.Context) error {
	uid, err := httpx.UserID(c)
	if err != nil {
		return httpx.Error(c, err)
	}
	orders, err := h.svc.ListOrders(c.Request().Context(), uid)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

// UpdateOrderStatus - PATCH /api/orders/:id
func (h *Handler) UpdateOrderStatus(c echo.Context) error {
	uid, err := httpx.UserID(c)
	if err != nil {
		return httpx.Error(c, err)
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status required"})
	}
	order, err := h.svc.UpdateOrderStatus(c.Request().Context(), uid, c.Param("id"), models.OrderStatus(req.Status))
	if err != nil {
		return httpx.Error(c, err)
	}

	messaging.BroadcastOrderUpdate(order.ID, order)

	if order.Status == models.OrderDelivered {
		if client, err := h.svc.GetUser(c.Request().Context(), order.ClientID); err == nil && client.Email != "" {
			_ = alerts.EnqueueOrderDelivered(order.ID, order.ClientID, order.FreelancerID, client.Email)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Order updated successfully", "order": order})
}

// GetEscrow - GET /api/orders/:orderId/escrow
func (h *Handler) GetEscrow(c echo.Context) error {
	uid, err := httpx.UserID(c)
	if err != nil {
		return httpx.Error(c, err)
	}
	escrow, err := h.svc.GetEscrowByOrder(c.Request().Context(), uid, c.Param("orderId"))
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, escrow)
}

// ReleaseEscrow - POST /api/escrow/:id/release
func (h *Handler) ReleaseEscrow(c echo.Context) error {
	uid, err := httpx.UserID(c)
	if err != nil {
		return httpx.Error(c, err)
	}
	escrow, order, err := h.svc.ReleaseEscrow(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return httpx.Error(c, err)
	}

	// Notify the freelancer of the payout (best-effort)
	if freelancer, err := h.svc.GetUser(c.Request().Context(), order.FreelancerID); err == nil && freelancer.Email != "" {
		_ = alerts.EnqueueEscrowReleased(order.ID, escrow.ID, order.FreelancerID, freelancer.Email, escrow.Amount)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Payment released to freelancer", "escrow": escrow})
}

// OpenDispute - POST /api/disputes
func (h *Handler) OpenDispute(c echo.Context) error {
	uid, err := httpx.UserID(c)
	if err != nil {
		return httpx.Error(c, err)
	}
	var req struct {
		OrderID     string `json:"order_id"`
		Reason      string `json:"reason"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil || req.OrderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_id required"})
	}
	dispute, err := h.svc.OpenDispute(c.Request().Context(), uid, req.OrderID, req.Reason, req.Description)
	if err != nil {
		return httpx.Error(c, err)
	}

	// Tell the other participant and alert the admins (best-effort)
	if order, err := h.svc.GetOrder(c.Request().Context(), uid, dispute.OrderID); err == nil {
		other := order.ClientID
		if uid == order.ClientID {
			other = order.FreelancerID
		}
		if u, err := h.svc.GetUser(c.Request().Context(), other); err == nil && u.Email != "" {
			_ = alerts.EnqueueDisputeOpened(dispute.ID, order.ID, uid, u.Email, dispute.Reason)
		}
	}
	_ = alerts.EnqueueAdminAlert(uid, "info", "New dispute opened: order "+dispute.OrderID)

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Dispute created successfully. Both parties must send letters to " + dispute.AdminEmail,
		"dispute": dispute,
	})
}

// SubmitReview - POST /api/reviews
func (h *Handler) SubmitReview(c echo.Context) error {
	uid, err := httpx.UserID(c)
	if err != nil {
		return httpx.Error(c, err)
	}
	var req struct {
		OrderID string `json:"order_id"`
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil || req.OrderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_id required"})
	}
	review, err := h.svc.SubmitReview(c.Request().Context(), uid, req.OrderID, req.Rating, req.Comment)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Review submitted successfully", "review": review})
}
