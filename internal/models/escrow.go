package models

import "time"

type EscrowStatus string

const (
	EscrowHeld     EscrowStatus = "held"
	EscrowReleased EscrowStatus = "released"
	EscrowRefunded EscrowStatus = "refunded"
)

// Escrow holds the payment collected for an order until it is released to
// the freelancer or refunded to the client. Exactly one escrow exists per
// order and the amount never changes after creation.
type Escrow struct {
	ID        string       `json:"id"`
	OrderID   string       `json:"order_id"`
	Amount    int64        `json:"amount"`
	Status    EscrowStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
