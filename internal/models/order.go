package models

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderInProgress OrderStatus = "in_progress"
	OrderDelivered  OrderStatus = "delivered"
	OrderCompleted  OrderStatus = "completed"
	OrderDisputed   OrderStatus = "disputed"
	OrderRefunded   OrderStatus = "refunded"
)

// Order records a purchase of a gig. GigTitle, Price and FreelancerID are
// snapshots of the gig at order time: later edits to the listing must not
// retroactively change existing orders.
type Order struct {
	ID           string      `json:"id"`
	GigID        string      `json:"gig_id"`
	GigTitle     string      `json:"gig_title"`
	ClientID     string      `json:"client_id"`
	FreelancerID string      `json:"freelancer_id"`
	Price        int64       `json:"price"`
	Requirements string      `json:"requirements,omitempty"`
	Instructions string      `json:"instructions,omitempty"`
	Status       OrderStatus `json:"status"`
	DeliveryDate time.Time   `json:"delivery_date"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Participant reports whether the user is the order's client or freelancer.
func (o *Order) Participant(userID string) bool {
	return userID == o.ClientID || userID == o.FreelancerID
}
