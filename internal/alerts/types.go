package alerts

import "time"

// Task type constants
const (
	TaskWelcomeEmail       = "email:welcome"
	TaskOrderPlaced        = "email:order_placed"
	TaskOrderDelivered     = "email:order_delivered"
	TaskEscrowReleased     = "email:escrow_released"
	TaskDisputeOpened      = "email:dispute_opened"
	TaskDisputeResolved    = "email:dispute_resolved"
	TaskMessageNew         = "email:message_new"
	TaskSubscriptionActive = "email:subscription_active"
	TaskAdminAlert         = "email:admin_alert"
)

// Common envelope for email-like notifications
type EmailEnvelope struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type WelcomeEmailPayload struct {
	UserID   string        `json:"user_id"`
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}

// Order placed payload (sent to the freelancer)
type OrderPlacedPayload struct {
	OrderID      string        `json:"order_id"`
	ClientID     string        `json:"client_id"`
	FreelancerID string        `json:"freelancer_id"`
	Email        string        `json:"email"`
	Amount       int64         `json:"amount"`
	Envelope     EmailEnvelope `json:"envelope"`
	SentAt       time.Time     `json:"sent_at"`
}

// Order delivered payload (sent to the client)
type OrderDeliveredPayload struct {
	OrderID      string        `json:"order_id"`
	ClientID     string        `json:"client_id"`
	FreelancerID string        `json:"freelancer_id"`
	Email        string        `json:"email"`
	Envelope     EmailEnvelope `json:"envelope"`
	SentAt       time.Time     `json:"sent_at"`
}

// Escrow released payload (sent to the freelancer)
type EscrowReleasedPayload struct {
	OrderID      string        `json:"order_id"`
	EscrowID     string        `json:"escrow_id"`
	FreelancerID string        `json:"freelancer_id"`
	Email        string        `json:"email"`
	Amount       int64         `json:"amount"`
	Envelope     EmailEnvelope `json:"envelope"`
	SentAt       time.Time     `json:"sent_at"`
}

// Dispute opened payload (sent to the other participant)
type DisputeOpenedPayload struct {
	DisputeID string        `json:"dispute_id"`
	OrderID   string        `json:"order_id"`
	FilerID   string        `json:"filer_id"`
	Email     string        `json:"email"`
	Reason    string        `json:"reason"`
	Envelope  EmailEnvelope `json:"envelope"`
	SentAt    time.Time     `json:"sent_at"`
}

// Dispute resolved payload (sent to each participant)
type DisputeResolvedPayload struct {
	DisputeID  string        `json:"dispute_id"`
	OrderID    string        `json:"order_id"`
	Email      string        `json:"email"`
	Resolution string        `json:"resolution"`
	Envelope   EmailEnvelope `json:"envelope"`
	SentAt     time.Time     `json:"sent_at"`
}

// Message new payload (sent to the recipient)
type MessageNewPayload struct {
	OrderID   string        `json:"order_id"`
	SenderID  string        `json:"sender_id"`
	Recipient string        `json:"recipient"`
	Email     string        `json:"email"`
	Body      string        `json:"body"`
	Envelope  EmailEnvelope `json:"envelope"`
	SentAt    time.Time     `json:"sent_at"`
}

// Subscription activated payload
type SubscriptionActivePayload struct {
	UserID   string        `json:"user_id"`
	Email    string        `json:"email"`
	Amount   int64         `json:"amount"`
	Expiry   time.Time     `json:"expiry"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}

// Admin alert payload
type AdminAlertPayload struct {
	ActorID  string        `json:"actor_id"`
	Severity string        `json:"severity"` // info|warning|critical
	Message  string        `json:"message"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}
