// Package rest assembles the chi router for the HTTP API.
package rest

import (
	"net/http"
	"time"

	"meetgraph/interfaces/http/rest/handlers"
	custommw "meetgraph/interfaces/http/rest/middleware"
	"meetgraph/pkg/auth"
	"meetgraph/pkg/common"
	"meetgraph/pkg/observability"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterConfig carries the handlers and cross-cutting pieces the router
// wires together.
type RouterConfig struct {
	Feed        *handlers.FeedHandler
	Profile     *handlers.ProfileHandler
	Connections *handlers.ConnectionHandler
	Chat        *handlers.ChatHandler
	Cache       *handlers.CacheHandler
	Payment     *handlers.PaymentHandler

	JWTValidator *auth.JWTValidator
	RateLimiter  auth.RateLimiter
	Logger       *zap.Logger
	Metrics      *observability.MetricsPublisher
	EnableCORS   bool
}

// NewRouter builds the full route tree
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommw.Logger(cfg.Logger, cfg.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Webhooks authenticate with an HMAC signature, not a user token.
	r.Post("/webhooks/payment", cfg.Payment.HandleWebhook)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(custommw.Authenticator(cfg.JWTValidator, cfg.Logger))
		if cfg.RateLimiter != nil {
			r.Use(custommw.Throttle(cfg.RateLimiter, cfg.Logger))
		}

		r.Get("/feed", cfg.Feed.GetFeed)

		r.Get("/profile", cfg.Profile.GetProfile)
		r.Patch("/profile", cfg.Profile.UpdateProfile)

		r.Post("/requests/{status}/{toUserID}", cfg.Connections.SendRequest)
		r.Post("/requests/{requestID}/review/{status}", cfg.Connections.ReviewRequest)
		r.Get("/requests/received", cfg.Connections.GetReceivedRequests)
		r.Get("/connections", cfg.Connections.GetConnections)

		r.Get("/chats/{targetUserID}", cfg.Chat.GetThread)
		r.Post("/chats/{targetUserID}", cfg.Chat.SendMessage)

		r.Get("/cache/metrics", cfg.Cache.GetMetrics)
		r.Post("/cache/metrics/reset", cfg.Cache.ResetMetrics)
	})

	return r
}
