package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harvestChurchAdmin/church-messaging-app/internal/transport/http/middleware"
)

// RouterDeps bundles everything the HTTP router needs.
type RouterDeps struct {
	MessageHandler   *MessageHandler
	WebhookHandler   *WebhookHandler
	DirectoryHandler *DirectoryHandler
	JWTSecret        string
	Logger           *slog.Logger
}

// NewRouter builds the gateway's chi router: authenticated /api routes,
// unauthenticated carrier webhooks, health and metrics.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(MetricsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Carrier webhooks are authenticated by obscurity of the callback URL
	// plus Twilio request signing at the edge proxy; no session required.
	r.Route("/webhooks", func(r chi.Router) {
		deps.WebhookHandler.RegisterRoutes(r)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(deps.JWTSecret, deps.Logger))
		deps.MessageHandler.RegisterRoutes(r)
		deps.DirectoryHandler.RegisterRoutes(r)
	})

	return r
}
