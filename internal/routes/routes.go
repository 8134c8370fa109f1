// internal/routes/routes.go
package routes

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clientportal/internal/config"
	"clientportal/internal/handlers"
	"clientportal/internal/observability"
	"clientportal/internal/tenants"
)

// Dependencies are the long-lived services shared by every route group.
type Dependencies struct {
	DB         *sql.DB
	Config     *config.Config
	Logger     *observability.Logger
	Tenants    *tenants.Registry
	Webhook    handlers.WebhookCaller
	Dashboards handlers.DashboardService
	Exporter   handlers.ReportExporter
	Metrics    *prometheus.Registry
}

func SetupRoutes(deps Dependencies) *chi.Mux {
	if deps.Logger == nil {
		deps.Logger = observability.NewNop()
	}
	if deps.Config == nil {
		deps.Config = &config.Config{}
	}

	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(observability.Middleware(deps.Logger))

	r.Get("/", handlers.Root)

	health := handlers.NewHealthHandler(deps.DB)
	r.Get("/health", health.Health)

	if deps.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{Registry: deps.Metrics}))
	}

	RegisterSwaggerRoutes(r)

	RegisterFunctionRoutes(r, deps)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   deps.Config.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", observability.RequestIDHeader},
			ExposedHeaders:   []string{observability.RequestIDHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}))
		RegisterTenantRoutes(r, deps)
	})

	return r
}
