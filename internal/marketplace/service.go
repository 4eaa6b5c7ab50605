// Package marketplace holds the core of the platform: the listing catalog,
// the order/escrow lifecycle, disputes, reviews and the subscription gate.
package marketplace

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/igwt-platform/igwt/internal/models"
	"github.com/igwt-platform/igwt/internal/store"
)

type Service struct {
	store      store.Store
	adminEmail string
	monthlyFee int64

	// overridable in tests
	now   func() time.Time
	newID func() string
}

func NewService(st store.Store, adminEmail string, monthlyFee int64) *Service {
	return &Service{
		store:      st,
		adminEmail: adminEmail,
		monthlyFee: monthlyFee,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// GetUser looks up an account by id.
func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u *models.User
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		u, err = tx.Users().GetByID(ctx, id)
		return err
	})
	return u, err
}

type Stats struct {
	Users    int `json:"users"`
	Gigs     int `json:"gigs"`
	Orders   int `json:"orders"`
	Disputes int `json:"disputes"`
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		if st.Users, err = tx.Users().Count(ctx); err != nil {
			return err
		}
		if st.Gigs, err = tx.Gigs().Count(ctx); err != nil {
			return err
		}
		if st.Orders, err = tx.Orders().Count(ctx); err != nil {
			return err
		}
		st.Disputes, err = tx.Disputes().Count(ctx)
		return err
	})
	return st, err
}
