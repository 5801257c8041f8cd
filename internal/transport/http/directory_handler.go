package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harvestChurchAdmin/church-messaging-app/internal/directory"
)

// DirectoryClient is the contact-directory surface the handler proxies.
type DirectoryClient interface {
	GetPeople(ctx context.Context) ([]directory.Person, error)
	GetTags(ctx context.Context) ([]directory.Tag, error)
}

// DirectoryHandler proxies the church-management contact directory to
// authenticated staff.
type DirectoryHandler struct {
	client DirectoryClient
	logger *slog.Logger
}

// NewDirectoryHandler creates a DirectoryHandler.
func NewDirectoryHandler(client DirectoryClient, logger *slog.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		client: client,
		logger: logger.With("handler", "directory"),
	}
}

// RegisterRoutes registers the directory routes.
func (h *DirectoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/people", h.handlePeople)
	r.Get("/tags", h.handleTags)
}

func (h *DirectoryHandler) handlePeople(w http.ResponseWriter, r *http.Request) {
	people, err := h.client.GetPeople(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to fetch people", "error", err)
		h.jsonError(w, "Failed to fetch people", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(people)
}

func (h *DirectoryHandler) handleTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.client.GetTags(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to fetch tags", "error", err)
		h.jsonError(w, "Failed to fetch tags", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tags)
}

func (h *DirectoryHandler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Message: message})
}
