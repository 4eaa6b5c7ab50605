package models

import "time"

// Message is one entry in an order's conversation thread. SenderName is a
// snapshot of the sender's username at send time.
type Message struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"order_id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
