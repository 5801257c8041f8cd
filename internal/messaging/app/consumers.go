package app

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/harvestChurchAdmin/church-messaging-app/internal/messaging/domain"
	"github.com/harvestChurchAdmin/church-messaging-app/internal/platform/messagebroker"
)

// NATS subjects carrying validated webhook events from the HTTP edge to
// the processors, and the queue group shared by gateway replicas.
const (
	SubjectStatusCallbacks = "sms.status.twilio"
	SubjectInboundMessages = "sms.inbound.twilio"
	QueueGroupGateway      = "church-messaging-gateway"
)

// WebhookConsumer subscribes to the webhook subjects and feeds the status
// reconciler and the reply router. Processing failures are logged only;
// the carrier was already acknowledged at the HTTP edge.
type WebhookConsumer struct {
	natsClient messagebroker.NATSClient
	reconciler *StatusReconciler
	router     *ReplyRouter
	logger     *slog.Logger
	subs       []*nats.Subscription
}

// NewWebhookConsumer creates a WebhookConsumer.
func NewWebhookConsumer(natsClient messagebroker.NATSClient, reconciler *StatusReconciler, router *ReplyRouter, logger *slog.Logger) *WebhookConsumer {
	return &WebhookConsumer{
		natsClient: natsClient,
		reconciler: reconciler,
		router:     router,
		logger:     logger.With("component", "webhook_consumer"),
	}
}

// Start subscribes to both subjects. Handlers run on NATS delivery
// goroutines; each event is processed independently.
func (c *WebhookConsumer) Start(ctx context.Context) error {
	statusSub, err := c.natsClient.Subscribe(ctx, SubjectStatusCallbacks, QueueGroupGateway, func(msg *nats.Msg) {
		var ev domain.StatusCallbackEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			c.logger.Error("Failed to unmarshal status callback event", "error", err, "data", string(msg.Data))
			return
		}
		if err := c.reconciler.ProcessStatusCallback(ctx, ev); err != nil {
			c.logger.Error("Status callback processing failed", "sid", ev.MessageSID, "error", err)
		}
	})
	if err != nil {
		return err
	}
	c.subs = append(c.subs, statusSub)

	inboundSub, err := c.natsClient.Subscribe(ctx, SubjectInboundMessages, QueueGroupGateway, func(msg *nats.Msg) {
		var ev domain.InboundMessageEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			c.logger.Error("Failed to unmarshal inbound message event", "error", err, "data", string(msg.Data))
			return
		}
		if err := c.router.RouteInbound(ctx, ev); err != nil {
			c.logger.Error("Inbound message routing failed", "from", ev.From, "error", err)
		}
	})
	if err != nil {
		return err
	}
	c.subs = append(c.subs, inboundSub)

	c.logger.Info("Webhook consumers started",
		"subjects", []string{SubjectStatusCallbacks, SubjectInboundMessages}, "queue_group", QueueGroupGateway)
	return nil
}

// Stop unsubscribes from all subjects.
func (c *WebhookConsumer) Stop() {
	for _, sub := range c.subs {
		if err := sub.Unsubscribe(); err != nil {
			c.logger.Warn("Failed to unsubscribe", "subject", sub.Subject, "error", err)
		}
	}
	c.subs = nil
}
