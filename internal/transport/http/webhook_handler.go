package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/harvestChurchAdmin/church-messaging-app/internal/messaging/app"
	"github.com/harvestChurchAdmin/church-messaging-app/internal/messaging/domain"
	"github.com/harvestChurchAdmin/church-messaging-app/internal/platform/messagebroker"
)

// twimlEmptyResponse is the empty acknowledgment envelope Twilio expects
// from an inbound-message webhook.
const twimlEmptyResponse = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`

// WebhookHandler receives Twilio's form-encoded callbacks, validates them
// at the edge, and publishes the validated events to NATS. Anything that
// fails after validation is logged only; the carrier never sees a
// retryable error for an internal problem.
type WebhookHandler struct {
	natsClient messagebroker.NATSClient
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(natsClient messagebroker.NATSClient, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		natsClient: natsClient,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logger:     logger.With("handler", "webhook"),
	}
}

// RegisterRoutes registers the carrier webhook routes.
func (h *WebhookHandler) RegisterRoutes(r chi.Router) {
	r.Post("/twilio/status", h.handleStatusCallback)
	r.Post("/twilio/inbound", h.handleInboundMessage)
}

func (h *WebhookHandler) handleStatusCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chimiddleware.GetReqID(ctx))

	if err := r.ParseForm(); err != nil {
		logger.WarnContext(ctx, "Failed to parse status callback form", "error", err)
		http.Error(w, "Invalid form payload", http.StatusBadRequest)
		return
	}

	ev := domain.StatusCallbackEvent{
		MessageSID:    r.PostFormValue("MessageSid"),
		MessageStatus: r.PostFormValue("MessageStatus"),
		ErrorCode:     r.PostFormValue("ErrorCode"),
		ErrorMessage:  r.PostFormValue("ErrorMessage"),
	}
	if err := h.validate.Struct(ev); err != nil {
		logger.WarnContext(ctx, "Status callback missing MessageSid or MessageStatus", "error", err)
		http.Error(w, "MessageSid and MessageStatus are required", http.StatusBadRequest)
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to marshal status callback event", "error", err)
	} else if err := h.natsClient.Publish(ctx, app.SubjectStatusCallbacks, data); err != nil {
		// Acknowledge anyway: the carrier must not retry on an internal
		// reconciliation failure.
		logger.ErrorContext(ctx, "Failed to publish status callback event",
			"sid", ev.MessageSID, "error", err)
	} else {
		logger.InfoContext(ctx, "Status callback queued", "sid", ev.MessageSID, "status", ev.MessageStatus)
	}

	w.WriteHeader(http.StatusOK)
}

func (h *WebhookHandler) handleInboundMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chimiddleware.GetReqID(ctx))

	// The inbound webhook always acknowledges with an empty TwiML
	// envelope, regardless of outcome, to avoid carrier retry storms.
	defer func() {
		w.Header().Set("Content-Type", "text/xml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(twimlEmptyResponse))
	}()

	if err := r.ParseForm(); err != nil {
		logger.WarnContext(ctx, "Failed to parse inbound message form", "error", err)
		return
	}

	ev := domain.InboundMessageEvent{
		From: r.PostFormValue("From"),
		Body: r.PostFormValue("Body"),
	}
	if err := h.validate.Struct(ev); err != nil {
		logger.WarnContext(ctx, "Inbound message missing From or Body, acknowledging without routing", "error", err)
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to marshal inbound message event", "error", err)
		return
	}
	if err := h.natsClient.Publish(ctx, app.SubjectInboundMessages, data); err != nil {
		logger.ErrorContext(ctx, "Failed to publish inbound message event", "from", ev.From, "error", err)
		return
	}
	logger.InfoContext(ctx, "Inbound message queued for routing", "from", ev.From)
}
