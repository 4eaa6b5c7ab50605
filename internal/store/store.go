// Package store defines the storage boundary for the platform. Every
// multi-record mutation (order+escrow creation, escrow settlement, review
// plus rating recompute) runs inside a single Update call so that no caller
// ever observes a half-applied pair.
package store

import (
	"context"

	"github.com/igwt-platform/igwt/internal/models"
)

// GigFilter narrows catalog listings. Zero values mean "no constraint".
type GigFilter struct {
	Category string
	MinPrice int64
	MaxPrice int64
	Search   string
}

type UserRepo interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	Count(ctx context.Context) (int, error)
}

type GigRepo interface {
	Create(ctx context.Context, g *models.Gig) error
	GetByID(ctx context.Context, id string) (*models.Gig, error)
	List(ctx context.Context, f GigFilter) ([]*models.Gig, error)
	ListByFreelancer(ctx context.Context, freelancerID string) ([]*models.Gig, error)
	Update(ctx context.Context, g *models.Gig) error
	Count(ctx context.Context) (int, error)
}

type OrderRepo interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// ListByParticipant returns every order where the user is client or
	// freelancer, in insertion order.
	ListByParticipant(ctx context.Context, userID string) ([]*models.Order, error)
	Update(ctx context.Context, o *models.Order) error
	Count(ctx context.Context) (int, error)
}

type EscrowRepo interface {
	Create(ctx context.Context, e *models.Escrow) error
	GetByID(ctx context.Context, id string) (*models.Escrow, error)
	GetByOrder(ctx context.Context, orderID string) (*models.Escrow, error)
	Update(ctx context.Context, e *models.Escrow) error
}

type DisputeRepo interface {
	Create(ctx context.Context, d *models.Dispute) error
	GetByID(ctx context.Context, id string) (*models.Dispute, error)
	List(ctx context.Context) ([]*models.Dispute, error)
	Update(ctx context.Context, d *models.Dispute) error
	Count(ctx context.Context) (int, error)
}

type MessageRepo interface {
	Create(ctx context.Context, m *models.Message) error
	ListByOrder(ctx context.Context, orderID string) ([]*models.Message, error)
}

type ReviewRepo interface {
	Create(ctx context.Context, r *models.Review) error
	GetByOrder(ctx context.Context, orderID string) (*models.Review, error)
	ListByGig(ctx context.Context, gigID string) ([]*models.Review, error)
}

type SubscriptionRepo interface {
	Create(ctx context.Context, s *models.Subscription) error
}

// Tx exposes the repositories bound to one consistent view of the store.
// Lookups for absent records return shared.ErrNotFound.
type Tx interface {
	Users() UserRepo
	Gigs() GigRepo
	Orders() OrderRepo
	Escrows() EscrowRepo
	Disputes() DisputeRepo
	Messages() MessageRepo
	Reviews() ReviewRepo
	Subscriptions() SubscriptionRepo
}

type Store interface {
	// View runs fn against a consistent read snapshot.
	View(ctx context.Context, fn func(tx Tx) error) error
	// Update runs fn atomically: if fn returns an error none of its
	// mutations are applied.
	Update(ctx context.Context, fn func(tx Tx) error) error
	Close()
}
