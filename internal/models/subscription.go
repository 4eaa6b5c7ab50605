package models

import "time"

// Subscription records one paid 30-day access period. Creating one also
// stamps the owning user's subscription fields; the access gate itself is
// derived from the expiry (see User.SubscriptionActive).
type Subscription struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Amount     int64     `json:"amount"`
	StartDate  time.Time `json:"start_date"`
	ExpiryDate time.Time `json:"expiry_date"`
	Status     string    `json:"status"`
}
