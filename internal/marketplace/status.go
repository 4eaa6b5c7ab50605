package marketplace

import (
	"fmt"

	"github.com/igwt-platform/igwt/internal/models"
	"github.com/igwt-platform/igwt/internal/shared"
)

type participant int

const (
	participantClient participant = iota
	participantFreelancer
)

// transitions is the closed table of status moves participants may request
// directly. completed, disputed and refunded are reachable only through
// ReleaseEscrow, OpenDispute and ResolveDispute.
var transitions = map[models.OrderStatus]map[models.OrderStatus]participant{
	models.OrderPending:    {models.OrderInProgress: participantFreelancer},
	models.OrderInProgress: {models.OrderDelivered: participantFreelancer},
	// the client can send delivered work back for revision
	models.OrderDelivered: {models.OrderInProgress: participantClient},
}

func checkTransition(cur, next models.OrderStatus, p participant) error {
	who, ok := transitions[cur][next]
	if !ok {
		return fmt.Errorf("%w: order cannot move from %s to %s", shared.ErrConflict, cur, next)
	}
	if who != p {
		return fmt.Errorf("%w: transition %s to %s is not yours to make", shared.ErrForbidden, cur, next)
	}
	return nil
}
