package store

import (
	"context"
	"strings"
	"sync"

	"github.com/igwt-platform/igwt/internal/models"
	"github.com/igwt-platform/igwt/internal/shared"
)

// Memory is the in-process backend: one mutex serializes all writes, and
// Update works on a clone of the dataset that is swapped in only when the
// closure succeeds, so a failed update leaves nothing half-applied. It backs
// the test suite and dev mode when no Postgres DSN is configured.
type Memory struct {
	mu   sync.RWMutex
	data *dataset
}

type dataset struct {
	users         []models.User
	gigs          []models.Gig
	orders        []models.Order
	escrows       []models.Escrow
	disputes      []models.Dispute
	messages      []models.Message
	reviews       []models.Review
	subscriptions []models.Subscription
}

func NewMemory() *Memory {
	return &Memory{data: &dataset{}}
}

func (m *Memory) View(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(&memTx{d: m.data})
}

func (m *Memory) Update(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.data.clone()
	if err := fn(&memTx{d: next}); err != nil {
		return err
	}
	m.data = next
	return nil
}

func (m *Memory) Close() {}

func (d *dataset) clone() *dataset {
	next := &dataset{
		users:         make([]models.User, len(d.users)),
		gigs:          make([]models.Gig, len(d.gigs)),
		orders:        append([]models.Order(nil), d.orders...),
		escrows:       append([]models.Escrow(nil), d.escrows...),
		disputes:      append([]models.Dispute(nil), d.disputes...),
		messages:      append([]models.Message(nil), d.messages...),
		reviews:       append([]models.Review(nil), d.reviews...),
		subscriptions: append([]models.Subscription(nil), d.subscriptions...),
	}
	for i := range d.users {
		next.users[i] = copyUser(d.users[i])
	}
	for i := range d.gigs {
		next.gigs[i] = copyGig(d.gigs[i])
	}
	return next
}

// copyUser and copyGig deep-copy the records that carry inner slices, so
// mutations on a clone never leak into the committed dataset.
func copyUser(u models.User) models.User {
	u.Skills = append([]string(nil), u.Skills...)
	u.Portfolio = append([]models.PortfolioItem(nil), u.Portfolio...)
	u.Achievements = append([]models.PortfolioItem(nil), u.Achievements...)
	u.PastWork = append([]models.PortfolioItem(nil), u.PastWork...)
	if u.SubscriptionExpiry != nil {
		exp := *u.SubscriptionExpiry
		u.SubscriptionExpiry = &exp
	}
	return u
}

func copyGig(g models.Gig) models.Gig {
	g.Requirements = append([]string(nil), g.Requirements...)
	return g
}

func copyDispute(d models.Dispute) models.Dispute {
	if d.ResolvedAt != nil {
		t := *d.ResolvedAt
		d.ResolvedAt = &t
	}
	return d
}

type memTx struct{ d *dataset }

func (t *memTx) Users() UserRepo                 { return memUsers{t.d} }
func (t *memTx) Gigs() GigRepo                   { return memGigs{t.d} }
func (t *memTx) Orders() OrderRepo               { return memOrders{t.d} }
func (t *memTx) Escrows() EscrowRepo             { return memEscrows{t.d} }
func (t *memTx) Disputes() DisputeRepo           { return memDisputes{t.d} }
func (t *memTx) Messages() MessageRepo           { return memMessages{t.d} }
func (t *memTx) Reviews() ReviewRepo             { return memReviews{t.d} }
func (t *memTx) Subscriptions() SubscriptionRepo { return memSubscriptions{t.d} }

type memUsers struct{ d *dataset }

func (r memUsers) Create(_ context.Context, u *models.User) error {
	r.d.users = append(r.d.users, copyUser(*u))
	return nil
}

func (r memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	for i := range r.d.users {
		if r.d.users[i].ID == id {
			u := copyUser(r.d.users[i])
			return &u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for i := range r.d.users {
		if r.d.users[i].Email == email {
			u := copyUser(r.d.users[i])
			return &u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memUsers) Update(_ context.Context, u *models.User) error {
	for i := range r.d.users {
		if r.d.users[i].ID == u.ID {
			r.d.users[i] = copyUser(*u)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r memUsers) Count(_ context.Context) (int, error) { return len(r.d.users), nil }

type memGigs struct{ d *dataset }

func (r memGigs) Create(_ context.Context, g *models.Gig) error {
	r.d.gigs = append(r.d.gigs, copyGig(*g))
	return nil
}

func (r memGigs) GetByID(_ context.Context, id string) (*models.Gig, error) {
	for i := range r.d.gigs {
		if r.d.gigs[i].ID == id {
			g := copyGig(r.d.gigs[i])
			return &g, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memGigs) List(_ context.Context, f GigFilter) ([]*models.Gig, error) {
	var out []*models.Gig
	q := strings.ToLower(f.Search)
	for i := range r.d.gigs {
		g := r.d.gigs[i]
		if f.Category != "" && g.Category != f.Category {
			continue
		}
		if f.MinPrice > 0 && g.Price < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && g.Price > f.MaxPrice {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(g.Title), q) &&
			!strings.Contains(strings.ToLower(g.Description), q) {
			continue
		}
		gc := copyGig(g)
		out = append(out, &gc)
	}
	return out, nil
}

func (r memGigs) ListByFreelancer(_ context.Context, freelancerID string) ([]*models.Gig, error) {
	var out []*models.Gig
	for i := range r.d.gigs {
		if r.d.gigs[i].FreelancerID == freelancerID {
			g := copyGig(r.d.gigs[i])
			out = append(out, &g)
		}
	}
	return out, nil
}

func (r memGigs) Update(_ context.Context, g *models.Gig) error {
	for i := range r.d.gigs {
		if r.d.gigs[i].ID == g.ID {
			r.d.gigs[i] = copyGig(*g)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r memGigs) Count(_ context.Context) (int, error) { return len(r.d.gigs), nil }

type memOrders struct{ d *dataset }

func (r memOrders) Create(_ context.Context, o *models.Order) error {
	r.d.orders = append(r.d.orders, *o)
	return nil
}

func (r memOrders) GetByID(_ context.Context, id string) (*models.Order, error) {
	for i := range r.d.orders {
		if r.d.orders[i].ID == id {
			o := r.d.orders[i]
			return &o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memOrders) ListByParticipant(_ context.Context, userID string) ([]*models.Order, error) {
	var out []*models.Order
	for i := range r.d.orders {
		if r.d.orders[i].Participant(userID) {
			o := r.d.orders[i]
			out = append(out, &o)
		}
	}
	return out, nil
}

func (r memOrders) Update(_ context.Context, o *models.Order) error {
	for i := range r.d.orders {
		if r.d.orders[i].ID == o.ID {
			r.d.orders[i] = *o
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r memOrders) Count(_ context.Context) (int, error) { return len(r.d.orders), nil }

type memEscrows struct{ d *dataset }

func (r memEscrows) Create(_ context.Context, e *models.Escrow) error {
	r.d.escrows = append(r.d.escrows, *e)
	return nil
}

func (r memEscrows) GetByID(_ context.Context, id string) (*models.Escrow, error) {
	for i := range r.d.escrows {
		if r.d.escrows[i].ID == id {
			e := r.d.escrows[i]
			return &e, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memEscrows) GetByOrder(_ context.Context, orderID string) (*models.Escrow, error) {
	for i := range r.d.escrows {
		if r.d.escrows[i].OrderID == orderID {
			e := r.d.escrows[i]
			return &e, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memEscrows) Update(_ context.Context, e *models.Escrow) error {
	for i := range r.d.escrows {
		if r.d.escrows[i].ID == e.ID {
			r.d.escrows[i] = *e
			return nil
		}
	}
	return shared.ErrNotFound
}

type memDisputes struct{ d *dataset }

func (r memDisputes) Create(_ context.Context, d *models.Dispute) error {
	r.d.disputes = append(r.d.disputes, copyDispute(*d))
	return nil
}

func (r memDisputes) GetByID(_ context.Context, id string) (*models.Dispute, error) {
	for i := range r.d.disputes {
		if r.d.disputes[i].ID == id {
			d := copyDispute(r.d.disputes[i])
			return &d, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memDisputes) List(_ context.Context) ([]*models.Dispute, error) {
	out := make([]*models.Dispute, 0, len(r.d.disputes))
	for i := range r.d.disputes {
		d := copyDispute(r.d.disputes[i])
		out = append(out, &d)
	}
	return out, nil
}

func (r memDisputes) Update(_ context.Context, d *models.Dispute) error {
	for i := range r.d.disputes {
		if r.d.disputes[i].ID == d.ID {
			r.d.disputes[i] = copyDispute(*d)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r memDisputes) Count(_ context.Context) (int, error) { return len(r.d.disputes), nil }

type memMessages struct{ d *dataset }

func (r memMessages) Create(_ context.Context, m *models.Message) error {
	r.d.messages = append(r.d.messages, *m)
	return nil
}

func (r memMessages) ListByOrder(_ context.Context, orderID string) ([]*models.Message, error) {
	var out []*models.Message
	for i := range r.d.messages {
		if r.d.messages[i].OrderID == orderID {
			m := r.d.messages[i]
			out = append(out, &m)
		}
	}
	return out, nil
}

type memReviews struct{ d *dataset }

func (r memReviews) Create(_ context.Context, rv *models.Review) error {
	r.d.reviews = append(r.d.reviews, *rv)
	return nil
}

func (r memReviews) GetByOrder(_ context.Context, orderID string) (*models.Review, error) {
	for i := range r.d.reviews {
		if r.d.reviews[i].OrderID == orderID {
			rv := r.d.reviews[i]
			return &rv, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memReviews) ListByGig(_ context.Context, gigID string) ([]*models.Review, error) {
	var out []*models.Review
	for i := range r.d.reviews {
		if r.d.reviews[i].GigID == gigID {
			rv := r.d.reviews[i]
			out = append(out, &rv)
		}
	}
	return out, nil
}

type memSubscriptions struct{ d *dataset }

func (r memSubscriptions) Create(_ context.Context, s *models.Subscription) error {
	r.d.subscriptions = append(r.d.subscriptions, *s)
	return nil
}
