package handlers

import (
	"context"

	"clientportal/internal/models"
	"clientportal/internal/refresh"
	"clientportal/internal/report"
	"clientportal/internal/services"
)

type WebhookCaller interface {
	Do(ctx context.Context, req services.WebhookRequest) (*services.WebhookResponse, error)
}

type TenantLookup interface {
	Get(clientKey string) (models.TenantConfig, error)
}

// DashboardService is implemented by *refresh.Orchestrator.
type DashboardService interface {
	LoadInitial(ctx context.Context, clientKey string, rng models.DateRange) models.Snapshot
	Refresh(ctx context.Context, clientKey string, rng models.DateRange) refresh.RefreshResult
	Status(ctx context.Context, clientKey string) refresh.CooldownStatus
	Latest(clientKey string) (models.Snapshot, bool)
}

// ReportExporter is implemented by *services.ReportExporter.
type ReportExporter interface {
	Export(ctx context.Context, clientKey string, view report.DashboardView) (*services.ExportResult, error)
}
