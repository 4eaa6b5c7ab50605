package marketplace

import (
	"context"
	"time"

	"github.com/igwt-platform/igwt/internal/models"
	"github.com/igwt-platform/igwt/internal/store"
)

const subscriptionPeriod = 30 * 24 * time.Hour

// Subscribe starts a paid 30-day period at the platform's flat monthly fee
// and stamps the user's subscription fields in the same update. The gates
// themselves derive access from the expiry, so a lapsed period closes them
// without any cleanup job.
func (s *Service) Subscribe(ctx context.Context, actorID string) (*models.Subscription, error) {
	var sub *models.Subscription
	err := s.store.Update(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetByID(ctx, actorID)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		expiry := now.Add(subscriptionPeriod)
		sub = &models.Subscription{
			ID:         s.newID(),
			UserID:     user.ID,
			Amount:     s.monthlyFee,
			StartDate:  now,
			ExpiryDate: expiry,
			Status:     models.SubscriptionActive,
		}
		if err := tx.Subscriptions().Create(ctx, sub); err != nil {
			return err
		}
		user.SubscriptionStatus = models.SubscriptionActive
		user.SubscriptionExpiry = &expiry
		return tx.Users().Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}
