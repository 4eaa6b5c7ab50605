package messaging

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/igwt-platform/igwt/internal/models"
	"github.com/igwt-platform/igwt/internal/shared"
	"github.com/igwt-platform/igwt/internal/store"
)

// Service owns the per-order conversation threads. Only the two order
// participants may read or write a thread.
type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// SendMessage appends a message to the order's thread. The sender's
// username is snapshotted so later renames do not rewrite history. The
// second return value is the other participant, for notifications.
func (s *Service) SendMessage(ctx context.Context, actorID, orderID, content string) (*models.Message, *models.User, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil, fmt.Errorf("%w: message content is required", shared.ErrValidation)
	}

	var (
		msg       *models.Message
		recipient *models.User
	)
	err := s.store.Update(ctx, func(tx store.Tx) error {
		order, err := tx.Orders().GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Participant(actorID) {
			return fmt.Errorf("%w: not a participant in this order", shared.ErrForbidden)
		}
		sender, err := tx.Users().GetByID(ctx, actorID)
		if err != nil {
			return err
		}
		recipientID := order.ClientID
		if actorID == order.ClientID {
			recipientID = order.FreelancerID
		}
		// Recipient lookup is best-effort; the thread outlives accounts.
		recipient, _ = tx.Users().GetByID(ctx, recipientID)

		msg = &models.Message{
			ID:         uuid.New().String(),
			OrderID:    orderID,
			SenderID:   actorID,
			SenderName: sender.Username,
			Content:    content,
			CreatedAt:  time.Now().UTC(),
		}
		return tx.Messages().Create(ctx, msg)
	})
	if err != nil {
		return nil, nil, err
	}
	return msg, recipient, nil
}

// ListMessages returns the order's thread oldest-first.
func (s *Service) ListMessages(ctx context.Context, actorID, orderID string) ([]*models.Message, error) {
	var msgs []*models.Message
	err := s.store.View(ctx, func(tx store.Tx) error {
		order, err := tx.Orders().GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Participant(actorID) {
			return fmt.Errorf("%w: not a participant in this order", shared.ErrForbidden)
		}
		msgs, err = tx.Messages().ListByOrder(ctx, orderID)
		return err
	})
	return msgs, err
}

// IsParticipant reports whether the user belongs to the order. Used by
// the websocket endpoint before upgrading the connection.
func (s *Service) IsParticipant(ctx context.Context, actorID, orderID string) (bool, error) {
	var ok bool
	err := s.store.View(ctx, func(tx store.Tx) error {
		order, err := tx.Orders().GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		ok = order.Participant(actorID)
		return nil
	})
	return ok, err
}
