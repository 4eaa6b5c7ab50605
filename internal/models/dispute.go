package models

import "time"

type DisputeStatus string

const (
	DisputePending  DisputeStatus = "pending"
	DisputeResolved DisputeStatus = "resolved"
)

const (
	ResolutionRelease = "release"
	ResolutionRefund  = "refund"
	ResolutionNone    = "none"
)

// Dispute is opened by an order participant and forces the order into the
// disputed state. An admin later resolves it; the resolution decides what
// happens to the escrowed funds.
type Dispute struct {
	ID          string        `json:"id"`
	OrderID     string        `json:"order_id"`
	InitiatedBy string        `json:"initiated_by"`
	Reason      string        `json:"reason"`
	Description string        `json:"description,omitempty"`
	Status      DisputeStatus `json:"status"`
	Resolution  string        `json:"resolution,omitempty"`
	Notes       string        `json:"notes,omitempty"`
	ResolvedBy  string        `json:"resolved_by,omitempty"`
	AdminEmail  string        `json:"admin_email"`
	CreatedAt   time.Time     `json:"created_at"`
	ResolvedAt  *time.Time    `json:"resolved_at,omitempty"`
}
