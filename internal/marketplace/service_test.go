package marketplace

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/igwt-platform/igwt/internal/models"
	"github.com/igwt-platform/igwt/internal/shared"
	"github.com/igwt-platform/igwt/internal/store"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

type testEnv struct {
	svc *Service
	st  *store.Memory
}

func newTestEnv() *testEnv {
	st := store.NewMemory()
	svc := NewService(st, "igwt.help.team@gmail.com", 3)
	svc.now = fixedNow
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("id-%03d", n)
	}
	return &testEnv{svc: svc, st: st}
}

func (e *testEnv) addUser(t *testing.T, id, name string, subscribed bool) *models.User {
	t.Helper()
	u := &models.User{
		ID:                 id,
		Username:           name,
		Email:              id + "@example.com",
		UserType:           models.UserTypeFreelancer,
		Role:               models.RoleUser,
		Skills:             []string{},
		SubscriptionStatus: models.SubscriptionInactive,
		CreatedAt:          fixedNow(),
	}
	if subscribed {
		exp := fixedNow().Add(30 * 24 * time.Hour)
		u.SubscriptionStatus = models.SubscriptionActive
		u.SubscriptionExpiry = &exp
	}
	require.NoError(t, e.st.Update(context.Background(), func(tx store.Tx) error {
		return tx.Users().Create(context.Background(), u)
	}))
	return u
}

func (e *testEnv) addGig(t *testing.T, freelancerID string) *models.Gig {
	t.Helper()
	gig, err := e.svc.CreateGig(context.Background(), freelancerID, GigInput{
		Title:        "Logo design",
		Description:  "A clean logo in three days",
		Category:     "design",
		Price:        150,
		DeliveryDays: 3,
	})
	require.NoError(t, err)
	return gig
}

func (e *testEnv) placeOrder(t *testing.T, clientID, gigID string) (*models.Order, *models.Escrow) {
	t.Helper()
	order, escrow, err := e.svc.PlaceOrder(context.Background(), clientID, gigID, "make it blue", "")
	require.NoError(t, err)
	return order, escrow
}

func TestCreateGigRequiresSubscription(t *testing.T) {
	e := newTestEnv()
	ctx := context.Background()
	e.addUser(t, "fr-1", "ada", false)

	_, err := e.svc.CreateGig(ctx, "fr-1", GigInput{Title: "Logo", Price: 100, DeliveryDays: 2})
	require.ErrorIs(t, err, shared.ErrForbidden)

	_, err = e.svc.Subscribe(ctx, "fr-1")
	require.NoError(t, err)

	gig, err := e.svc.CreateGig(ctx, "fr-1", GigInput{Title: "Logo", Price: 100, DeliveryDays: 2})
	require.NoError(t, err)
	require.Equal(t, "ada", gig.FreelancerName)
	require.NotNil(t, gig.Requirements)
}

func TestCreateGigValidation(t *testing.T) {
	e := newTestEnv()
	e.addUser(t, "fr-1", "ada", true)

	for _, in := range []GigInput{
		{Title: "", Price: 100, DeliveryDays: 2},
		{Title: "Logo", Price: 0, DeliveryDays: 2},
		{Title: "Logo", Price: 100, DeliveryDays: 0},
	} {
		_, err := e.svc.CreateGig(context.Background(), "fr-1", in)
		require.ErrorIs(t, err, shared.ErrValidation)
	}
}

func TestExpiredSubscriptionClosesGate(t *testing.T) {
	e := newTestEnv()
	u := e.addUser(t, "fr-1", "ada", true)

	expired := fixedNow().Add(-time.Hour)
	u.SubscriptionExpiry = &expired
	require.NoError(t, e.st.Update(context.Background(), func(tx store.Tx) error {
		return tx.Users().Update(context.Background(), u)
	}))

	_, err := e.svc.CreateGig(context.Background(), "fr-1", GigInput{Title: "Logo", Price: 100, DeliveryDays: 2})
	require.ErrorIs(t, err, shared.ErrForbidden)
}

func TestPlaceOrderCreatesEscrow(t *testing.T) {
	e := newTestEnv()
	ctx := context.Background()
	e.addUser(t, "fr-1", "ada", true)
	e.addUser(t, "cl-1", "bob", true)
	gig := e.addGig(t, "fr-1")

	order, escrow := e.placeOrder(t, "cl-1", gig.ID)

	require.Equal(t, models.OrderPending, order.Status)
	require.Equal(t, gig.Price, order.Price)
	require.Equal(t, "fr-1", order.FreelancerID)
	require.Equal(t, gig.Title, order.GigTitle)
	require.Equal(t, fixedNow().Add(3*24*time.Hour), order.DeliveryDate)

	require.Equal(t, order.ID, escrow.OrderID)
	require.Equal(t, order.Price, escrow.Amount)
	require.Equal(t, models.EscrowHeld, escrow.Status)

	got, _, _, err := e.svc.GetGig(ctx, gig.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.Orders)
}

func TestPlaceOrderGates(t *testing.T) {
	e := newTestEnv()
	ctx := context.Background()
	e.addUser(t, "fr-1", "ada", true)
	e.addUser(t, "cl-1", "bob", false)
	gig := e.addGig(t, "fr-1")

	_, _, err := e.svc.PlaceOrder(ctx, "cl-1", gig.ID, "", "")
	require.ErrorIs(t, err, shared.ErrForbidden)

	_, _, err = e.svc.PlaceOrder(ctx, "fr-1", gig.ID, "", "")
	require.ErrorIs(t, err, shared.ErrForbidden)

	_, _, err = e.svc.PlaceOrder(ctx, "cl-1", "no-such-gig", "", "")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOrderStatusTransitions(t *testing.T) {
	e := newTestEnv()
	ctx := context.Background()
	e.addUser(t, "fr-1", "ada", true)
	e.addUser(t, "cl-1", "bob", true)
	gig := e.addGig(t, "fr-1")
	order, _ := e.placeOrder(t, "cl-1", gig.ID)

	// Client cannot start the work.
	_, err := e.svc.UpdateOrderStatus(ctx, "cl-1", order.ID, models.OrderInProgress)
	require.ErrorIs(t, err, shared.ErrForbidden)

	// Freelancer starts, then delivers.
	got, err := e.svc.UpdateOrderStatus(ctx, "fr-1", order.ID, models.OrderInProgress)
	require.NoError(t, err)
	require.Equal(t, models.OrderInProgress, got.Status)

	got, err = e.svc.UpdateOrderStatus(ctx, "fr-1", order.ID, models.OrderDelivered)
	require.NoError(t, err)
	require.Equal(t, models.OrderDelivered, got.Status)

	// Client sends it back for revision.
	got, err = e.svc.UpdateOrderStatus(ctx, "cl-1", order.ID, models.OrderInProgress)
	require.NoError(t, err)
	require.Equal(t, models.OrderInProgress, got.Status)

	// Terminal statuses are never reachable through this endpoint.
	for _, next := range []models.OrderStatus{models.OrderCompleted, models.OrderDisputed, models.OrderRefunded, models.OrderPending} {
		_, err = e.svc.UpdateOrderStatus(ctx, "cl-1", order.ID, next)
		require.Error(t, err)
		_, err = e.svc.UpdateOrderStatus(ctx, "fr-1", order.ID, next)
		require.Error(t, err)
	}

	// Outsiders cannot touch the order at all.
	e.addUser(t, "ev-1", "eve", true)
	_, err = e.svc.UpdateOrderStatus(ctx, "ev-1", order.ID, models.OrderDelivered)
	require.ErrorIs(t, err, shared.ErrForbidden)
}

func TestReleaseEscrow(t *testing.T) {
	e := newTestEnv()
	ctx := context.Background()
	e.addUser(t, "fr-1", "ada", true)
	e.addUser(t, "cl-1", "bob", true)
	gig := e.addGig(t, "fr-1")
	order, escrow := e.placeOrder(t, "cl-1", gig.ID)

	// Only the client holds the release lever.
	_, _, err := e.svc.ReleaseEscrow(ctx, "fr-1", escrow.ID)
	require.ErrorIs(t, err, shared.ErrForbidden)

	gotEscrow, gotOrder, err := e.svc.ReleaseEscrow(ctx, "cl-1", escrow.ID)
	require.NoError(t, err)
	require.Equal(t, models.EscrowReleased, gotEscrow.Status)
	require.Equal(t, models.OrderCompleted, gotOrder.Status)
	require.Equal(t, order.ID, gotOrder.ID)

	freelancer, err := e.svc.GetUser(ctx, "fr-1")
	require.NoError(t, err)
	require.Equal(t, 1, freelancer.CompletedProjects)

	// A settled escrow cannot be released twice.
	_, _, err = e.svc.ReleaseEscrow(ctx, "cl-1", escrow.ID)
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestGetEscrowByOrder(t *testing.T) {
	e := newTestEnv()
	ctx := context.Background()
	e.addUser(t, "fr-1", "ada", true)
	e.addUser(t, "cl-1", "bob", true)
	e.addUser(t, "ev-1", "eve", true)
	gig := e.addGig(t, "fr-1")
	order, escrow := e.placeOrder(t, "cl-1", gig.ID)

	got, err := e.svc.GetEscrowByOrder(ctx, "fr-1", order.ID)
	require.NoError(t, err)
	require.Equal(t, escrow.ID, got.ID)

	_, err = e.svc.GetEscrowByOrder(ctx, "ev-1", order.ID)
	require.ErrorIs(t, err, shared.ErrForbidden)
}

func TestOpenDisputeFreezesOrder(t *testing.T) {
	e := newTestEnv()
	ctx := context.Background()
	e.addUser(t, "fr-1", "ada", true)
	e.addUser(t, "cl-1", "bob", true)
	gig := e.addGig(t, "fr-1")

	// A dispute can interrupt the flow at any pre-settlement stage.
	for _, advance := range [][]models.OrderStatus{
		nil,
		{models.OrderInProgress},
		{models.OrderInProgress, models.OrderDelivered},
	} {
		order, _ := e.placeOrder(t, "cl-1", gig.ID)
		for _, next := range advance {
			_, err := e.svc.UpdateOrderStatus(ctx, "fr-1", order.ID, next)
			require.NoError(t, err)
		}

		dispute, err := e.svc.OpenDispute(ctx, "cl-1", order.ID, "not as described", "")
		require.NoError(t, err)
		require.Equal(t, models.DisputePending, dispute.Status)
		require.Equal(t, "igwt.help.team@gmail.com", dispute.AdminEmail)

		got, err := e.svc.GetOrder(ctx, "cl-1", order.ID)
		require.NoError(t, err)
		require.Equal(t, models.OrderDisputed, got.Status)

		// Funds stay frozen until an admin decides.
		escrow, err := e.svc.GetEscrowByOrder(ctx, "cl-1", order.ID)
		require.NoError(t, err)
		require.Equal(t, models.EscrowHeld, escrow.Status)
	}
}

func TestFreelancerDisputesCompletedOrder(t *testing.T) {
	e := newTestEnv()
	ctx := context.Background()
	e.addUser(t, "fr-1", "ada", true)
	e.addUser(t, "cl-1", "bob", true)
	gig := e.addGig(t, "fr-1")
	order, escrow := e.placeOrder(t, "cl-1", gig.ID)

	_, _, err := e.svc.ReleaseEscrow(ctx, "cl-1", escrow.ID)
	require.NoError(t, err)

	// Either side may dispute, even after settlement.
	dispute, err := e.svc.OpenDispute(ctx, "fr-1", order.ID, "released against agreed revisions", "")
	require.NoError(t, err)
	require.Equal(t, models.DisputePending, dispute.Status)
	require.Equal(t, "fr-1", dispute.InitiatedBy)

	got, err := e.svc.GetOrder(ctx, "fr-1", order.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderDisputed, got.Status)

	// The funds are already gone; a refund ruling cannot claw them back.
	_, _, err = e.svc.ResolveDispute(ctx, "adm-1", dispute.ID, models.ResolutionRefund, "")
	require.ErrorIs(t, err, shared.ErrConflict)

	// Closing with no funds effect still works.
	resolved, _, err := e.svc.ResolveDispute(ctx, "adm-1", dispute.ID, models.ResolutionNone, "settlement stands")
	require.NoError(t, err)
	require.Equal(t, models.DisputeResolved, resolved.Status)
}

func TestOpenDisputeValidation(t *testing.T) {
	e := newTestEnv()
	ctx := context.Background()
	e.addUser(t, "fr-1", "ada", true)
	e.addUser(t, "cl-1", "bob", true)
	e.addUser(t, "ev-1", "eve", true)
	gig := e.addGig(t, "fr-1")
	order, _ := e.placeOrder(t, "cl-1", gig.ID)

	_, err := e.svc.OpenDispute(ctx, "cl-1", order.ID, "", "")
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = e.svc.OpenDispute(ctx, "ev-1", order.ID, "late", "")
	require.ErrorIs(t, err, shared.ErrForbidden)
}

func TestResolveDispute(t *testing.T) {
	e := newTestEnv()
	ctx := context.Background()
	e.addUser(t, "fr-1", "ada", true)
	e.addUser(t, "cl-1", "bob", true)
	gig := e.addGig(t, "fr-1")

	open := func(t *testing.T) *models.Dispute {
		order, _ := e.placeOrder(t, "cl-1", gig.ID)
		d, err := e.svc.OpenDispute(ctx, "cl-1", order.ID, "late delivery", "")
		require.NoError(t, err)
		return d
	}

	t.Run("refund", func(t *testing.T) {
		d := open(t)
		dispute, order, err := e.svc.ResolveDispute(ctx, "adm-1", d.ID, models.ResolutionRefund, "freelancer unresponsive")
		require.NoError(t, err)
		require.Equal(t, models.DisputeResolved, dispute.Status)
		require.Equal(t, "adm-1", dispute.ResolvedBy)
		require.NotNil(t, dispute.ResolvedAt)
		require.Equal(t, models.OrderRefunded, order.Status)

		escrow, err := e.svc.GetEscrowByOrder(ctx, "cl-1", order.ID)
		require.NoError(t, err)
		require.Equal(t, models.EscrowRefunded, escrow.Status)

		// No second bite at settled funds.
		_, _, err = e.svc.ResolveDispute(ctx, "adm-1", d.ID, models.ResolutionRefund, "")
		require.ErrorIs(t, err, shared.ErrConflict)
	})

	t.Run("release", func(t *testing.T) {
		d := open(t)
		before, err := e.svc.GetUser(ctx, "fr-1")
		require.NoError(t, err)

		dispute, order, err := e.svc.ResolveDispute(ctx, "adm-1", d.ID, models.ResolutionRelease, "work was delivered")
		require.NoError(t, err)
		require.Equal(t, models.DisputeResolved, dispute.Status)
		require.Equal(t, models.OrderCompleted, order.Status)

		escrow, err := e.svc.GetEscrowByOrder(ctx, "cl-1", order.ID)
		require.NoError(t, err)
		require.Equal(t, models.EscrowReleased, escrow.Status)

		after, err := e.svc.GetUser(ctx, "fr-1")
		require.NoError(t, err)
		require.Equal(t, before.CompletedProjects+1, after.CompletedProjects)
	})

	t.Run("none leaves funds alone", func(t *testing.T) {
		d := open(t)
		dispute, order, err := e.svc.ResolveDispute(ctx, "adm-1", d.ID, models.ResolutionNone, "no action")
		require.NoError(t, err)
		require.Equal(t, models.DisputeResolved, dispute.Status)
		require.Equal(t, models.OrderDisputed, order.Status)

		escrow, err := e.svc.GetEscrowByOrder(ctx, "cl-1", order.ID)
		require.NoError(t, err)
		require.Equal(t, models.EscrowHeld, escrow.Status)
	})

	t.Run("unknown resolution", func(t *testing.T) {
		d := open(t)
		_, _, err := e.svc.ResolveDispute(ctx, "adm-1", d.ID, "split", "")
		require.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestSubmitReview(t *testing.T) {
	e := newTestEnv()
	ctx := context.Background()
	e.addUser(t, "fr-1", "ada", true)
	e.addUser(t, "cl-1", "bob", true)
	gig := e.addGig(t, "fr-1")

	ratings := []int{4, 5, 3}
	for _, r := range ratings {
		order, _ := e.placeOrder(t, "cl-1", gig.ID)
		review, err := e.svc.SubmitReview(ctx, "cl-1", order.ID, r, "solid work")
		require.NoError(t, err)
		require.Equal(t, "bob", review.ClientName)
		require.Equal(t, gig.ID, review.GigID)
	}

	got, _, reviews, err := e.svc.GetGig(ctx, gig.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	require.Equal(t, 4.0, got.Rating)
}

func TestSubmitReviewGuards(t *testing.T) {
	e := newTestEnv()
	ctx := context.Background()
	e.addUser(t, "fr-1", "ada", true)
	e.addUser(t, "cl-1", "bob", true)
	gig := e.addGig(t, "fr-1")
	order, _ := e.placeOrder(t, "cl-1", gig.ID)

	_, err := e.svc.SubmitReview(ctx, "cl-1", order.ID, 0, "")
	require.ErrorIs(t, err, shared.ErrValidation)
	_, err = e.svc.SubmitReview(ctx, "cl-1", order.ID, 6, "")
	require.ErrorIs(t, err, shared.ErrValidation)

	// Only the buying side reviews.
	_, err = e.svc.SubmitReview(ctx, "fr-1", order.ID, 5, "")
	require.ErrorIs(t, err, shared.ErrForbidden)

	_, err = e.svc.SubmitReview(ctx, "cl-1", order.ID, 5, "great")
	require.NoError(t, err)

	// One review per order.
	_, err = e.svc.SubmitReview(ctx, "cl-1", order.ID, 4, "changed my mind")
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestSubscribe(t *testing.T) {
	e := newTestEnv()
	ctx := context.Background()
	e.addUser(t, "cl-1", "bob", false)

	sub, err := e.svc.Subscribe(ctx, "cl-1")
	require.NoError(t, err)
	require.Equal(t, int64(3), sub.Amount)
	require.Equal(t, fixedNow().Add(30*24*time.Hour), sub.ExpiryDate)
	require.Equal(t, models.SubscriptionActive, sub.Status)

	u, err := e.svc.GetUser(ctx, "cl-1")
	require.NoError(t, err)
	require.True(t, u.SubscriptionActive(fixedNow()))
	require.False(t, u.SubscriptionActive(fixedNow().Add(31*24*time.Hour)))

	_, err = e.svc.Subscribe(ctx, "nobody")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestStats(t *testing.T) {
	e := newTestEnv()
	ctx := context.Background()
	e.addUser(t, "fr-1", "ada", true)
	e.addUser(t, "cl-1", "bob", true)
	gig := e.addGig(t, "fr-1")
	order, _ := e.placeOrder(t, "cl-1", gig.ID)
	_, err := e.svc.OpenDispute(ctx, "cl-1", order.ID, "late", "")
	require.NoError(t, err)

	stats, err := e.svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, Stats{Users: 2, Gigs: 1, Orders: 1, Disputes: 1}, stats)
}
