package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/igwt-platform/igwt/internal/models"
	"github.com/igwt-platform/igwt/internal/shared"
	"github.com/igwt-platform/igwt/internal/store"
)

func seedThread(t *testing.T) (*Service, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, st.Update(ctx, func(tx store.Tx) error {
		for _, u := range []*models.User{
			{ID: "cl-1", Username: "bob", Email: "bob@example.com"},
			{ID: "fr-1", Username: "ada", Email: "ada@example.com"},
			{ID: "ev-1", Username: "eve", Email: "eve@example.com"},
		} {
			if err := tx.Users().Create(ctx, u); err != nil {
				return err
			}
		}
		return tx.Orders().Create(ctx, &models.Order{
			ID:           "o-1",
			ClientID:     "cl-1",
			FreelancerID: "fr-1",
			Status:       models.OrderInProgress,
			CreatedAt:    time.Now().UTC(),
		})
	}))
	return NewService(st), st
}

func TestSendMessage(t *testing.T) {
	svc, _ := seedThread(t)
	ctx := context.Background()

	msg, recipient, err := svc.SendMessage(ctx, "cl-1", "o-1", "how is it going?")
	require.NoError(t, err)
	require.Equal(t, "bob", msg.SenderName)
	require.Equal(t, "o-1", msg.OrderID)
	require.NotNil(t, recipient)
	require.Equal(t, "fr-1", recipient.ID)

	// The freelancer's reply goes the other way.
	_, recipient, err = svc.SendMessage(ctx, "fr-1", "o-1", "nearly done")
	require.NoError(t, err)
	require.Equal(t, "cl-1", recipient.ID)

	msgs, err := svc.ListMessages(ctx, "cl-1", "o-1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, "how is it going?", msgs[0].Content)
	require.Equal(t, "nearly done", msgs[1].Content)
}

func TestSendMessageGuards(t *testing.T) {
	svc, _ := seedThread(t)
	ctx := context.Background()

	_, _, err := svc.SendMessage(ctx, "cl-1", "o-1", "   ")
	require.ErrorIs(t, err, shared.ErrValidation)

	_, _, err = svc.SendMessage(ctx, "ev-1", "o-1", "let me in")
	require.ErrorIs(t, err, shared.ErrForbidden)

	_, _, err = svc.SendMessage(ctx, "cl-1", "o-404", "hello?")
	require.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.ListMessages(ctx, "ev-1", "o-1")
	require.ErrorIs(t, err, shared.ErrForbidden)
}

func TestIsParticipant(t *testing.T) {
	svc, _ := seedThread(t)
	ctx := context.Background()

	ok, err := svc.IsParticipant(ctx, "cl-1", "o-1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.IsParticipant(ctx, "ev-1", "o-1")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = svc.IsParticipant(ctx, "cl-1", "o-404")
	require.ErrorIs(t, err, shared.ErrNotFound)
}
