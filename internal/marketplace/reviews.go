package marketplace

import (
	"context"
	"errors"
	"fmt"

	"github.com/igwt-platform/igwt/internal/models"
	"github.com/igwt-platform/igwt/internal/shared"
	"github.com/igwt-platform/igwt/internal/store"
)

// SubmitReview appends a review to the order's gig and recomputes the gig's
// mean rating in the same update. Only the order's client may review, once
// per order.
func (s *Service) SubmitReview(ctx context.Context, actorID, orderID string, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", shared.ErrValidation)
	}

	var review *models.Review
	err := s.store.Update(ctx, func(tx store.Tx) error {
		order, err := tx.Orders().GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if actorID != order.ClientID {
			return fmt.Errorf("%w: only the client can review this order", shared.ErrForbidden)
		}
		if _, err := tx.Reviews().GetByOrder(ctx, orderID); err == nil {
			return fmt.Errorf("%w: review already exists for this order", shared.ErrConflict)
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		client, err := tx.Users().GetByID(ctx, actorID)
		if err != nil {
			return err
		}
		gig, err := tx.Gigs().GetByID(ctx, order.GigID)
		if err != nil {
			return err
		}

		review = &models.Review{
			ID:         s.newID(),
			OrderID:    order.ID,
			GigID:      gig.ID,
			ClientID:   client.ID,
			ClientName: client.Username,
			Rating:     rating,
			Comment:    comment,
			CreatedAt:  s.now().UTC(),
		}
		if err := tx.Reviews().Create(ctx, review); err != nil {
			return err
		}

		reviews, err := tx.Reviews().ListByGig(ctx, gig.ID)
		if err != nil {
			return err
		}
		var sum int
		for _, r := range reviews {
			sum += r.Rating
		}
		gig.Rating = round1(float64(sum) / float64(len(reviews)))
		return tx.Gigs().Update(ctx, gig)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}
