package routes

import (
	"github.com/go-chi/chi/v5"

	"clientportal/internal/handlers"
	"clientportal/internal/middleware"
	"clientportal/internal/repository"
)

func RegisterTenantRoutes(router chi.Router, deps Dependencies) {
	analytics := handlers.NewAnalyticsHandler(repository.NewAnalyticsRepository(deps.DB))
	dashboard := handlers.NewDashboardHandler(deps.Dashboards, deps.Tenants)
	session := handlers.NewSessionHandler(deps.Tenants, deps.Config.JWTSecret, deps.Config.SessionTTL)
	reports := handlers.NewReportHandler(deps.Dashboards, deps.Tenants, deps.Exporter, deps.Logger)

	router.Route("/tenants/{clientKey}", func(r chi.Router) {
		r.Post("/session", session.CreateSession)

		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionAuth(deps.Config.JWTSecret, deps.Tenants))

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/", dashboard.GetDashboard)
				r.Post("/load", dashboard.LoadDashboard)
				r.Get("/refresh", dashboard.RefreshStatus)
				r.Post("/refresh", dashboard.RefreshDashboard)
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/", analytics.ListAnalytics)
				r.Get("/{id}", analytics.GetAnalytics)
			})

			r.Post("/reports/export", reports.ExportReport)
		})
	})
}
