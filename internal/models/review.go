package models

import "time"

// Review is authored by an order's client against the order's gig.
// ClientName is a snapshot; the gig's rating is recomputed whenever a review
// is appended.
type Review struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"order_id"`
	GigID      string    `json:"gig_id"`
	ClientID   string    `json:"client_id"`
	ClientName string    `json:"client_name"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
