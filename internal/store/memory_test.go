package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/igwt-platform/igwt/internal/models"
	"github.com/igwt-platform/igwt/internal/shared"
)

func seedGig(t *testing.T, m *Memory, id, title, category string, price int64) {
	t.Helper()
	require.NoError(t, m.Update(context.Background(), func(tx Tx) error {
		return tx.Gigs().Create(context.Background(), &models.Gig{
			ID:           id,
			FreelancerID: "fr-1",
			Title:        title,
			Category:     category,
			Price:        price,
			DeliveryDays: 3,
			Requirements: []string{},
			CreatedAt:    time.Now().UTC(),
		})
	}))
}

func TestMemoryUpdateRollsBackOnError(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	boom := errors.New("boom")

	err := m.Update(ctx, func(tx Tx) error {
		if err := tx.Users().Create(ctx, &models.User{ID: "u-1", Username: "ada"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = m.View(ctx, func(tx Tx) error {
		_, err := tx.Users().GetByID(ctx, "u-1")
		return err
	})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestMemoryLookupsReturnCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Update(ctx, func(tx Tx) error {
		return tx.Users().Create(ctx, &models.User{ID: "u-1", Username: "ada", Skills: []string{"go"}})
	}))

	var got *models.User
	require.NoError(t, m.View(ctx, func(tx Tx) error {
		var err error
		got, err = tx.Users().GetByID(ctx, "u-1")
		return err
	}))

	// Mutating the returned value must not leak into the store.
	got.Username = "mallory"
	got.Skills[0] = "rust"

	require.NoError(t, m.View(ctx, func(tx Tx) error {
		u, err := tx.Users().GetByID(ctx, "u-1")
		if err != nil {
			return err
		}
		require.Equal(t, "ada", u.Username)
		require.Equal(t, []string{"go"}, u.Skills)
		return nil
	}))
}

func TestMemoryGigFilter(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	seedGig(t, m, "g-1", "Logo design", "design", 100)
	seedGig(t, m, "g-2", "API development", "dev", 500)
	seedGig(t, m, "g-3", "Landing page", "design", 250)

	cases := []struct {
		name   string
		filter GigFilter
		want   []string
	}{
		{"all", GigFilter{}, []string{"g-1", "g-2", "g-3"}},
		{"category", GigFilter{Category: "design"}, []string{"g-1", "g-3"}},
		{"min price", GigFilter{MinPrice: 200}, []string{"g-2", "g-3"}},
		{"max price", GigFilter{MaxPrice: 250}, []string{"g-1", "g-3"}},
		{"search title", GigFilter{Search: "api"}, []string{"g-2"}},
		{"combined", GigFilter{Category: "design", MinPrice: 200}, []string{"g-3"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ids []string
			require.NoError(t, m.View(ctx, func(tx Tx) error {
				gigs, err := tx.Gigs().List(ctx, tc.filter)
				if err != nil {
					return err
				}
				for _, g := range gigs {
					ids = append(ids, g.ID)
				}
				return nil
			}))
			require.Equal(t, tc.want, ids)
		})
	}
}

func TestMemoryEscrowByOrder(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Update(ctx, func(tx Tx) error {
		return tx.Escrows().Create(ctx, &models.Escrow{ID: "e-1", OrderID: "o-1", Amount: 100, Status: models.EscrowHeld})
	}))

	require.NoError(t, m.View(ctx, func(tx Tx) error {
		e, err := tx.Escrows().GetByOrder(ctx, "o-1")
		require.NoError(t, err)
		require.Equal(t, "e-1", e.ID)

		_, err = tx.Escrows().GetByOrder(ctx, "o-2")
		require.ErrorIs(t, err, shared.ErrNotFound)
		return nil
	}))
}

func TestMemoryMessagesKeepInsertionOrder(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for i, content := range []string{"first", "second", "third"} {
		require.NoError(t, m.Update(ctx, func(tx Tx) error {
			return tx.Messages().Create(ctx, &models.Message{
				ID:      string(rune('a' + i)),
				OrderID: "o-1",
				Content: content,
			})
		}))
	}

	require.NoError(t, m.View(ctx, func(tx Tx) error {
		msgs, err := tx.Messages().ListByOrder(ctx, "o-1")
		require.NoError(t, err)
		require.Len(t, msgs, 3)
		require.Equal(t, "first", msgs[0].Content)
		require.Equal(t, "third", msgs[2].Content)
		return nil
	}))
}
