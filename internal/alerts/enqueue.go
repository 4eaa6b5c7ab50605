package alerts

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

func enqueue(taskType string, payload interface{}, queue string) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = client.Enqueue(asynq.NewTask(taskType, b), asynq.Queue(queue))
	return err
}

// EnqueueWelcomeEmail schedules a welcome email to the user
func EnqueueWelcomeEmail(userID, email, name string) error {
	env := EmailEnvelope{
		To:      email,
		Subject: fmt.Sprintf("Welcome to IGWT, %s!", name),
		Body:    fmt.Sprintf("Hi %s, thanks for joining IGWT. Subscribe to start posting gigs or hiring freelancers with escrow protection.", name),
	}
	return enqueue(TaskWelcomeEmail, WelcomeEmailPayload{
		UserID: userID, Name: name, Email: email, Envelope: env, SentAt: time.Now(),
	}, "emails")
}

// EnqueueOrderPlaced notifies the freelancer of a new order
func EnqueueOrderPlaced(orderID, clientID, freelancerID, freelancerEmail string, amount int64) error {
	env := EmailEnvelope{
		To:      freelancerEmail,
		Subject: "You have a new order",
		Body:    fmt.Sprintf("Order %s was placed. $%d is held in escrow until delivery is accepted.", orderID, amount),
	}
	return enqueue(TaskOrderPlaced, OrderPlacedPayload{
		OrderID: orderID, ClientID: clientID, FreelancerID: freelancerID,
		Email: freelancerEmail, Amount: amount, Envelope: env, SentAt: time.Now(),
	}, "emails")
}

// EnqueueOrderDelivered notifies the client that work was delivered
func EnqueueOrderDelivered(orderID, clientID, freelancerID, clientEmail string) error {
	env := EmailEnvelope{
		To:      clientEmail,
		Subject: "Your order has been delivered",
		Body:    fmt.Sprintf("Order %s is delivered. Review the work and release the escrow, or request a revision.", orderID),
	}
	return enqueue(TaskOrderDelivered, OrderDeliveredPayload{
		OrderID: orderID, ClientID: clientID, FreelancerID: freelancerID,
		Email: clientEmail, Envelope: env, SentAt: time.Now(),
	}, "emails")
}

// EnqueueEscrowReleased notifies the freelancer of the payout
func EnqueueEscrowReleased(orderID, escrowID, freelancerID, freelancerEmail string, amount int64) error {
	env := EmailEnvelope{
		To:      freelancerEmail,
		Subject: "Payment released",
		Body:    fmt.Sprintf("Order %s is complete. $%d has been released to you.", orderID, amount),
	}
	return enqueue(TaskEscrowReleased, EscrowReleasedPayload{
		OrderID: orderID, EscrowID: escrowID, FreelancerID: freelancerID,
		Email: freelancerEmail, Amount: amount, Envelope: env, SentAt: time.Now(),
	}, "emails")
}

// EnqueueDisputeOpened notifies the other participant of a new dispute
func EnqueueDisputeOpened(disputeID, orderID, filerID, recipientEmail, reason string) error {
	env := EmailEnvelope{
		To:      recipientEmail,
		Subject: "A dispute was opened on your order",
		Body:    fmt.Sprintf("A dispute was opened on order %s: %s. The escrow is frozen until an administrator resolves it.", orderID, reason),
	}
	return enqueue(TaskDisputeOpened, DisputeOpenedPayload{
		DisputeID: disputeID, OrderID: orderID, FilerID: filerID,
		Email: recipientEmail, Reason: reason, Envelope: env, SentAt: time.Now(),
	}, "emails")
}

// EnqueueDisputeResolved notifies a participant of the outcome
func EnqueueDisputeResolved(disputeID, orderID, recipientEmail, resolution string) error {
	env := EmailEnvelope{
		To:      recipientEmail,
		Subject: "Your dispute has been resolved",
		Body:    fmt.Sprintf("The dispute on order %s was resolved: %s.", orderID, resolution),
	}
	return enqueue(TaskDisputeResolved, DisputeResolvedPayload{
		DisputeID: disputeID, OrderID: orderID, Email: recipientEmail,
		Resolution: resolution, Envelope: env, SentAt: time.Now(),
	}, "emails")
}

// EnqueueMessageNew notifies the recipient of a new message
func EnqueueMessageNew(orderID, senderID, recipientEmail, recipientID, body string) error {
	env := EmailEnvelope{
		To:      recipientEmail,
		Subject: "New message on your order",
		Body:    body,
	}
	return enqueue(TaskMessageNew, MessageNewPayload{
		OrderID: orderID, SenderID: senderID, Recipient: recipientID,
		Email: recipientEmail, Body: body, Envelope: env, SentAt: time.Now(),
	}, "emails")
}

// EnqueueSubscriptionActive confirms the monthly plan activation
func EnqueueSubscriptionActive(userID, email string, amount int64, expiry time.Time) error {
	env := EmailEnvelope{
		To:      email,
		Subject: "Your IGWT subscription is active",
		Body:    fmt.Sprintf("Your $%d/month subscription is active until %s.", amount, expiry.Format("2 Jan 2006")),
	}
	return enqueue(TaskSubscriptionActive, SubscriptionActivePayload{
		UserID: userID, Email: email, Amount: amount, Expiry: expiry,
		Envelope: env, SentAt: time.Now(),
	}, "emails")
}

// EnqueueAdminAlert sends an alert to the platform admins
func EnqueueAdminAlert(actorID, severity, message string) error {
	env := EmailEnvelope{To: adminEmail, Subject: "Admin Alert", Body: message}
	return enqueue(TaskAdminAlert, AdminAlertPayload{
		ActorID: actorID, Severity: severity, Message: message,
		Envelope: env, SentAt: time.Now(),
	}, "alerts")
}
