package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"clientportal/internal/interfaces"
	"clientportal/internal/models"
)

const maxAnalyticsPage = 500

type analyticsRepository struct {
	db *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) interfaces.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) Create(ctx context.Context, row *models.CampaignAnalytics) error {
	query := `
		INSERT INTO campaign_analytics (
			id, client_key, total_reply_count, total_emails_sent_count,
			total_new_leads_contacted_count, total_opportunities,
			total_opportunity_value, daily_analytics
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	if row.ID == "" {
		row.ID = uuid.NewString()
	}

	var daily any
	if len(row.DailyAnalytics) > 0 {
		daily = string(row.DailyAnalytics)
	}

	err := r.db.QueryRowContext(
		ctx,
		query,
		row.ID,
		row.ClientKey,
		row.TotalReplyCount,
		row.TotalEmailsSentCount,
		row.TotalNewLeadsContactedCount,
		row.TotalOpportunities,
		row.TotalOpportunityValue,
		daily,
	).Scan(&row.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create campaign analytics: %w", err)
	}
	return nil
}

func (r *analyticsRepository) GetByID(ctx context.Context, id string) (*models.CampaignAnalytics, error) {
	query := `
		SELECT id, client_key, total_reply_count, total_emails_sent_count,
			total_new_leads_contacted_count, total_opportunities,
			total_opportunity_value, daily_analytics, created_at
		FROM campaign_analytics
		WHERE id = $1
	`

	row, err := scanAnalytics(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get campaign analytics: %w", err)
	}
	return row, nil
}

// ListByClient returns the newest rows first.
func (r *analyticsRepository) ListByClient(ctx context.Context, clientKey string, limit int) ([]models.CampaignAnalytics, error) {
	if limit <= 0 || limit > maxAnalyticsPage {
		limit = maxAnalyticsPage
	}

	query := `
		SELECT id, client_key, total_reply_count, total_emails_sent_count,
			total_new_leads_contacted_count, total_opportunities,
			total_opportunity_value, daily_analytics, created_at
		FROM campaign_analytics
		WHERE client_key = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, clientKey, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaign analytics: %w", err)
	}
	defer rows.Close()

	out := []models.CampaignAnalytics{}
	for rows.Next() {
		row, err := scanAnalytics(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign analytics: %w", err)
		}
		out = append(out, *row)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnalytics(s scanner) (*models.CampaignAnalytics, error) {
	var row models.CampaignAnalytics
	var daily []byte
	err := s.Scan(
		&row.ID,
		&row.ClientKey,
		&row.TotalReplyCount,
		&row.TotalEmailsSentCount,
		&row.TotalNewLeadsContactedCount,
		&row.TotalOpportunities,
		&row.TotalOpportunityValue,
		&daily,
		&row.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(daily) > 0 {
		row.DailyAnalytics = daily
	}
	return &row, nil
}
