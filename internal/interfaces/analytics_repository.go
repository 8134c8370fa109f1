package interfaces

import (
	"context"

	"clientportal/internal/models"
)

// AnalyticsRepository stores campaign analytics rows pushed through the webhook receiver.
type AnalyticsRepository interface {
	Create(ctx context.Context, row *models.CampaignAnalytics) error
	// GetByID returns sql.ErrNoRows when the row does not exist.
	GetByID(ctx context.Context, id string) (*models.CampaignAnalytics, error)
	ListByClient(ctx context.Context, clientKey string, limit int) ([]models.CampaignAnalytics, error)
}
