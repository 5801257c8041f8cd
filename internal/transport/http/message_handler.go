package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harvestChurchAdmin/church-messaging-app/internal/messaging/app"
	"github.com/harvestChurchAdmin/church-messaging-app/internal/messaging/domain"
	"github.com/harvestChurchAdmin/church-messaging-app/internal/messaging/repository"
	"github.com/harvestChurchAdmin/church-messaging-app/internal/transport/http/middleware"
)

// Dispatcher is the send call surface the handler depends on.
type Dispatcher interface {
	Send(ctx context.Context, req app.SendRequest) (*app.SendResult, error)
}

// MessageHandler serves the authenticated send and history endpoints.
type MessageHandler struct {
	dispatcher Dispatcher
	ledger     repository.SmsRecordRepository
	logger     *slog.Logger
}

// NewMessageHandler creates a MessageHandler.
func NewMessageHandler(dispatcher Dispatcher, ledger repository.SmsRecordRepository, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		dispatcher: dispatcher,
		ledger:     ledger,
		logger:     logger.With("handler", "message"),
	}
}

// RegisterRoutes registers the message routes.
func (h *MessageHandler) RegisterRoutes(r chi.Router) {
	r.Post("/messages", h.handleSend)
	r.Get("/messages", h.handleHistory)
}

func (h *MessageHandler) handleSend(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.jsonError(w, "Unauthorized: Please log in.", http.StatusUnauthorized)
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			h.jsonError(w, "Request body is empty", http.StatusBadRequest)
			return
		}
		h.jsonError(w, "Invalid request payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.dispatcher.Send(r.Context(), app.SendRequest{
		To:            req.To,
		Message:       req.Message,
		SenderUserID:  user.ID,
		RecipientName: req.RecipientName,
		SenderName:    req.SenderName,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrNoValidRecipients):
			h.jsonError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, domain.ErrAllRecipientsFailed):
			h.jsonError(w, err.Error(), http.StatusBadGateway)
		default:
			h.logger.ErrorContext(r.Context(), "Send failed", "error", err, "sender_user_id", user.ID)
			h.jsonError(w, "Failed to send message", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(SendMessageResponse{Success: true, SIDs: result.SIDs})
}

func (h *MessageHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.ledger.ListAll(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to list SMS records", "error", err)
		h.jsonError(w, "Failed to fetch message history", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []*domain.SmsRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(records)
}

func (h *MessageHandler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Message: message})
}
