package marketplace

import (
	"context"
	"fmt"

	"github.com/igwt-platform/igwt/internal/models"
	"github.com/igwt-platform/igwt/internal/shared"
	"github.com/igwt-platform/igwt/internal/store"
)

// OpenDispute files a dispute on an order and forces the order into the
// disputed state, whatever its prior status — a completed order can still be
// disputed.
func (s *Service) OpenDispute(ctx context.Context, actorID, orderID, reason, description string) (*models.Dispute, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: reason required", shared.ErrValidation)
	}

	var dispute *models.Dispute
	err := s.store.Update(ctx, func(tx store.Tx) error {
		order, err := tx.Orders().GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Participant(actorID) {
			return fmt.Errorf("%w: not a participant in this order", shared.ErrForbidden)
		}

		now := s.now().UTC()
		dispute = &models.Dispute{
			ID:          s.newID(),
			OrderID:     order.ID,
			InitiatedBy: actorID,
			Reason:      reason,
			Description: description,
			Status:      models.DisputePending,
			AdminEmail:  s.adminEmail,
			CreatedAt:   now,
		}
		if err := tx.Disputes().Create(ctx, dispute); err != nil {
			return err
		}
		order.Status = models.OrderDisputed
		order.UpdatedAt = now
		return tx.Orders().Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return dispute, nil
}

func (s *Service) ListDisputes(ctx context.Context) ([]*models.Dispute, error) {
	var disputes []*models.Dispute
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		disputes, err = tx.Disputes().List(ctx)
		return err
	})
	return disputes, err
}

// ResolveDispute settles a pending dispute. The resolution decides the
// escrow's fate in the same atomic update:
//
//	release - funds go to the freelancer, the order completes
//	refund  - funds return to the client, the order is marked refunded
//	none    - the record is closed with no effect on funds
//
// Settling funds requires the escrow to still be held; refunding or
// re-releasing an already settled escrow is a conflict.
func (s *Service) ResolveDispute(ctx context.Context, adminID, disputeID, resolution, notes string) (*models.Dispute, *models.Order, error) {
	switch resolution {
	case models.ResolutionRelease, models.ResolutionRefund, models.ResolutionNone:
	default:
		return nil, nil, fmt.Errorf("%w: resolution must be release, refund or none", shared.ErrValidation)
	}

	var (
		dispute *models.Dispute
		order   *models.Order
	)
	err := s.store.Update(ctx, func(tx store.Tx) error {
		var err error
		dispute, err = tx.Disputes().GetByID(ctx, disputeID)
		if err != nil {
			return err
		}
		if dispute.Status == models.DisputeResolved {
			return fmt.Errorf("%w: dispute already resolved", shared.ErrConflict)
		}
		order, err = tx.Orders().GetByID(ctx, dispute.OrderID)
		if err != nil {
			return err
		}
		escrow, err := tx.Escrows().GetByOrder(ctx, order.ID)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		switch resolution {
		case models.ResolutionRelease:
			if escrow.Status != models.EscrowHeld {
				return fmt.Errorf("%w: escrow already %s", shared.ErrConflict, escrow.Status)
			}
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
			if err := tx.Users().Update(ctx, freelancer); err != nil {
				return err
			}
		case models.ResolutionRefund:
			if escrow.Status != models.EscrowHeld {
				return fmt.Errorf("%w: escrow already %s", shared.ErrConflict, escrow.Status)
			}
			escrow.Status = models.EscrowRefunded
			escrow.UpdatedAt = now
			if err := tx.Escrows().Update(ctx, escrow); err != nil {
				return err
			}
			order.Status = models.OrderRefunded
			order.UpdatedAt = now
			if err := tx.Orders().Update(ctx, order); err != nil {
				return err
			}
		}

		dispute.Status = models.DisputeResolved
		dispute.Resolution = resolution
		dispute.Notes = notes
		dispute.ResolvedBy = adminID
		dispute.ResolvedAt = &now
		return tx.Disputes().Update(ctx, dispute)
	})
	if err != nil {
		return nil, nil, err
	}
	return dispute, order, nil
}
