package models

import "time"

// Gig is a freelancer-published service listing. FreelancerName is a
// snapshot taken at creation; Rating is derived from reviews and never set
// directly.
type Gig struct {
	ID             string    `json:"id"`
	FreelancerID   string    `json:"freelancer_id"`
	FreelancerName string    `json:"freelancer_name"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category,omitempty"`
	Price          int64     `json:"price"`
	DeliveryDays   int       `json:"delivery_days"`
	Requirements   []string  `json:"requirements"`
	Rating         float64   `json:"rating"`
	Orders         int       `json:"orders"`
	CreatedAt      time.Time `json:"created_at"`
}
