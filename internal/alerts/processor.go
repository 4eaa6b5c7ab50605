package alerts

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
)

var (
	client     *asynq.Client
	server     *asynq.Server
	adminEmail string
)

// Init starts the Asynq server and initializes a shared client. An empty
// redisAddr leaves the whole subsystem disabled and every Enqueue call
// becomes a no-op, which keeps single-binary deployments working without
// Redis.
func Init(redisAddr, adminAddr string) {
	adminEmail = adminAddr
	if redisAddr == "" {
		log.Printf("alerts disabled: no REDIS_ADDR configured")
		return
	}

	opts := asynq.RedisClientOpt{Addr: redisAddr}
	client = asynq.NewClient(opts)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcomeEmail, handleWelcomeEmail)
	mux.HandleFunc(TaskOrderPlaced, handleOrderPlaced)
	mux.HandleFunc(TaskOrderDelivered, handleOrderDelivered)
	mux.HandleFunc(TaskEscrowReleased, handleEscrowReleased)
	mux.HandleFunc(TaskDisputeOpened, handleDisputeOpened)
	mux.HandleFunc(TaskDisputeResolved, handleDisputeResolved)
	mux.HandleFunc(TaskMessageNew, handleMessageNew)
	mux.HandleFunc(TaskSubscriptionActive, handleSubscriptionActive)
	mux.HandleFunc(TaskAdminAlert, handleAdminAlert)

	server = asynq.NewServer(opts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"emails": 10,
			"alerts": 5,
		},
	})
	go func() {
		if err := server.Run(mux); err != nil {
			log.Printf("Asynq server stopped: %v", err)
		}
	}()

	log.Printf("Asynq initialized (addr=%s)", redisAddr)
}

// Close releases the client and stops the server.
func Close() {
	if client != nil {
		_ = client.Close()
	}
	if server != nil {
		server.Shutdown()
	}
}

func deliver(t *asynq.Task, p interface{}, env *EmailEnvelope, tag string) error {
	if err := json.Unmarshal(t.Payload(), p); err != nil {
		return err
	}
	if err := SendEmail(env.To, env.Subject, env.Body); err != nil {
		log.Printf("[notify][ERROR] %s send failed: %v", tag, err)
		return err
	}
	log.Printf("[notify] %s sent -> to=%s", tag, env.To)
	return nil
}

func handleWelcomeEmail(_ context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	return deliver(t, &p, &p.Envelope, "WelcomeEmail")
}

func handleOrderPlaced(_ context.Context, t *asynq.Task) error {
	var p OrderPlacedPayload
	return deliver(t, &p, &p.Envelope, "OrderPlaced")
}

func handleOrderDelivered(_ context.Context, t *asynq.Task) error {
	var p OrderDeliveredPayload
	return deliver(t, &p, &p.Envelope, "OrderDelivered")
}

func handleEscrowReleased(_ context.Context, t *asynq.Task) error {
	var p EscrowReleasedPayload
	return deliver(t, &p, &p.Envelope, "EscrowReleased")
}

func handleDisputeOpened(_ context.Context, t *asynq.Task) error {
	var p DisputeOpenedPayload
	return deliver(t, &p, &p.Envelope, "DisputeOpened")
}

func handleDisputeResolved(_ context.Context, t *asynq.Task) error {
	var p DisputeResolvedPayload
	return deliver(t, &p, &p.Envelope, "DisputeResolved")
}

func handleMessageNew(_ context.Context, t *asynq.Task) error {
	var p MessageNewPayload
	return deliver(t, &p, &p.Envelope, "MessageNew")
}

func handleSubscriptionActive(_ context.Context, t *asynq.Task) error {
	var p SubscriptionActivePayload
	return deliver(t, &p, &p.Envelope, "SubscriptionActive")
}

func handleAdminAlert(_ context.Context, t *asynq.Task) error {
	var p AdminAlertPayload
	return deliver(t, &p, &p.Envelope, "AdminAlert")
}
