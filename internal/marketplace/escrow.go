package marketplace

import (
	"context"
	"fmt"

	"github.com/igwt-platform/igwt/internal/models"
	"github.com/igwt-platform/igwt/internal/shared"
	"github.com/igwt-platform/igwt/internal/store"
)

// GetEscrowByOrder returns the escrow for an order, visible only to the
// order's participants.
func (s *Service) GetEscrowByOrder(ctx context.Context, actorID, orderID string) (*models.Escrow, error) {
	var escrow *models.Escrow
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		escrow, err = tx.Escrows().GetByOrder(ctx, orderID)
		if err != nil {
			return err
		}
		order, err := tx.Orders().GetByID(ctx, orderID)
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
	return escrow, nil
}

// ReleaseEscrow pays the held funds out to the freelancer. Only the order's
// client may release; the escrow moves held -> released, the order completes
// and the freelancer's completed-project counter is bumped, all in one
// atomic update. There is no other path that releases funds.
func (s *Service) ReleaseEscrow(ctx context.Context, actorID, escrowID string) (*models.Escrow, *models.Order, error) {
	var (
		escrow *models.Escrow
		order  *models.Order
	)
	err := s.store.Update(ctx, func(tx store.Tx) error {
		var err error
		escrow, err = tx.Escrows().GetByID(ctx, escrowID)
		if err != nil {
			return err
		}
		order, err = tx.Orders().GetByID(ctx, escrow.OrderID)
		if err != nil {
			return err
		}
		if actorID != order.ClientID {
			return fmt.Errorf("%w: only the client can release payment", shared.ErrForbidden)
		}
		if escrow.Status != models.EscrowHeld {
			return fmt.Errorf("%w: escrow already %s", shared.ErrConflict, escrow.Status)
		}

		now := s.now().UTC()
		escrow.Status = models.EscrowReleased
		escrow.UpdatedAt = now
		if err := tx.Escrows().Update(ctx, escrow); err != nil {
			return err
		}
		order.Status = models.OrderCompleted
		order.UpdatedAt = now
		if err := tx.Orders().Update(ctx, order); err != nil {
			return err
		}

		freelancer, err := tx.Users().GetByID(ctx, order.FreelancerID)
		if err != nil {
			return err
		}
		freelancer.CompletedProjects++
		return tx.Users().Update(ctx, freelancer)
	})
	if err != nil {
		return nil, nil, err
	}
	return escrow, order, nil
}
