package marketplace

import (
	"context"
	"fmt"
	"math"

	"github.com/igwt-platform/igwt/internal/models"
	"github.com/igwt-platform/igwt/internal/shared"
	"github.com/igwt-platform/igwt/internal/store"
)

type GigInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Price        int64    `json:"price"`
	DeliveryDays int      `json:"delivery_days"`
	Requirements []string `json:"requirements"`
}

// CreateGig publishes a listing. The acting user must hold an active
// subscription; the freelancer name is snapshotted onto the gig.
func (s *Service) CreateGig(ctx context.Context, actorID string, in GigInput) (*models.Gig, error) {
	if in.Title == "" || in.Price <= 0 || in.DeliveryDays <= 0 {
		return nil, fmt.Errorf("%w: title, positive price and delivery window are required", shared.ErrValidation)
	}

	var gig *models.Gig
	err := s.store.Update(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetByID(ctx, actorID)
		if err != nil {
			return fmt.Errorf("%w: unknown user", shared.ErrForbidden)
		}
		if !user.SubscriptionActive(s.now()) {
			return fmt.Errorf("%w: active subscription required to create gigs", shared.ErrForbidden)
		}

		gig = &models.Gig{
			ID:             s.newID(),
			FreelancerID:   user.ID,
			FreelancerName: user.Username,
			Title:          in.Title,
			Description:    in.Description,
			Category:       in.Category,
			Price:          in.Price,
			DeliveryDays:   in.DeliveryDays,
			Requirements:   in.Requirements,
			CreatedAt:      s.now().UTC(),
		}
		if gig.Requirements == nil {
			gig.Requirements = []string{}
		}
		return tx.Gigs().Create(ctx, gig)
	})
	if err != nil {
		return nil, err
	}
	return gig, nil
}

func (s *Service) ListGigs(ctx context.Context, f store.GigFilter) ([]*models.Gig, error) {
	var gigs []*models.Gig
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		gigs, err = tx.Gigs().List(ctx, f)
		return err
	})
	return gigs, err
}

// GetGig returns a listing together with its freelancer and reviews.
func (s *Service) GetGig(ctx context.Context, id string) (*models.Gig, *models.User, []*models.Review, error) {
	var (
		gig        *models.Gig
		freelancer *models.User
		reviews    []*models.Review
	)
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		if gig, err = tx.Gigs().GetByID(ctx, id); err != nil {
			return err
		}
		if freelancer, err = tx.Users().GetByID(ctx, gig.FreelancerID); err != nil {
			return err
		}
		reviews, err = tx.Reviews().ListByGig(ctx, gig.ID)
		return err
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return gig, freelancer, reviews, nil
}

// round1 rounds a mean rating to one decimal, the precision gigs display.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
