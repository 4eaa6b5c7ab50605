package marketplace

import (
	"context"
	"fmt"
	"time"

	"github.com/igwt-platform/igwt/internal/models"
	"github.com/igwt-platform/igwt/internal/shared"
	"github.com/igwt-platform/igwt/internal/store"
)

// PlaceOrder creates an order against a gig and, atomically with it, the
// escrow holding the payment. The gig's title, price and freelancer are
// snapshotted so later listing edits never touch existing orders.
func (s *Service) PlaceOrder(ctx context.Context, actorID, gigID, requirements, instructions string) (*models.Order, *models.Escrow, error) {
	var (
		order  *models.Order
		escrow *models.Escrow
	)
	err := s.store.Update(ctx, func(tx store.Tx) error {
		gig, err := tx.Gigs().GetByID(ctx, gigID)
		if err != nil {
			return err
		}
		user, err := tx.Users().GetByID(ctx, actorID)
		if err != nil {
			return fmt.Errorf("%w: unknown user", shared.ErrForbidden)
		}
		if !user.SubscriptionActive(s.now()) {
			return fmt.Errorf("%w: active subscription required to place orders", shared.ErrForbidden)
		}
		if gig.FreelancerID == actorID {
			return fmt.Errorf("%w: you cannot order your own gig", shared.ErrForbidden)
		}

		now := s.now().UTC()
		order = &models.Order{
			ID:           s.newID(),
			GigID:        gig.ID,
			GigTitle:     gig.Title,
			ClientID:     actorID,
			FreelancerID: gig.FreelancerID,
			Price:        gig.Price,
			Requirements: requirements,
			Instructions: instructions,
			Status:       models.OrderPending,
			DeliveryDate: now.Add(time.Duration(gig.DeliveryDays) * 24 * time.Hour),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		escrow = &models.Escrow{
			ID:        s.newID(),
			OrderID:   order.ID,
			Amount:    gig.Price,
			Status:    models.EscrowHeld,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}
		if err := tx.Escrows().Create(ctx, escrow); err != nil {
			return err
		}
		gig.Orders++
		return tx.Gigs().Update(ctx, gig)
	})
	if err != nil {
		return nil, nil, err
	}
	return order, escrow, nil
}

// ListOrders returns every order the user participates in, oldest first.
func (s *Service) ListOrders(ctx context.Context, actorID string) ([]*models.Order, error) {
	var orders []*models.Order
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		orders, err = tx.Orders().ListByParticipant(ctx, actorID)
		return err
	})
	return orders, err
}

// GetOrder returns a single order, visible to its participants only.
func (s *Service) GetOrder(ctx context.Context, actorID, orderID string) (*models.Order, error) {
	var order *models.Order
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		order, err = tx.Orders().GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Participant(actorID) {
			return fmt.Errorf("%w: not a participant in this order", shared.ErrForbidden)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateOrderStatus applies a participant-requested transition after
// checking it against the closed transition table.
func (s *Service) UpdateOrderStatus(ctx context.Context, actorID, orderID string, next models.OrderStatus) (*models.Order, error) {
	var order *models.Order
	err := s.store.Update(ctx, func(tx store.Tx) error {
		var err error
		order, err = tx.Orders().GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Participant(actorID) {
			return fmt.Errorf("%w: not a participant in this order", shared.ErrForbidden)
		}
		role := participantFreelancer
		if actorID == order.ClientID {
			role = participantClient
		}
		if err := checkTransition(order.Status, next, role); err != nil {
			return err
		}
		order.Status = next
		order.UpdatedAt = s.now().UTC()
		return tx.Orders().Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
