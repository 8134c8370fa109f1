package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"clientportal/internal/handlers"
	"clientportal/internal/repository"
)

func RegisterFunctionRoutes(router chi.Router, deps Dependencies) {
	repo := repository.NewAnalyticsRepository(deps.DB)
	h := handlers.NewFunctionHandler(deps.Webhook, repo, deps.Config.ProxyAllowedHosts, deps.Config.DefaultClientKey, deps.Logger)

	router.Route("/functions", func(r chi.Router) {
		// The browser calls the functions from arbitrary portal origins.
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type", "X-Client-Info", "Apikey"},
			MaxAge:         300,
		}))
		r.Post("/webhook-proxy", h.WebhookProxy)
		r.Post("/webhook-receiver", h.WebhookReceiver)
	})
}
