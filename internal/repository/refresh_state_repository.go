package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"clientportal/internal/interfaces"
)

type refreshStateRepository struct {
	db *sql.DB
}

func NewRefreshStateRepository(db *sql.DB) interfaces.RefreshStateRepository {
	return &refreshStateRepository{db: db}
}

func (r *refreshStateRepository) LastRefresh(ctx context.Context, clientKey string) (time.Time, error) {
	var last time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT last_refresh_at FROM refresh_state WHERE client_key = $1`,
		clientKey,
	).Scan(&last)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to read refresh state: %w", err)
	}
	return last, nil
}

func (r *refreshStateRepository) RecordRefresh(ctx context.Context, clientKey string, at time.Time) error {
	query := `
		INSERT INTO refresh_state (client_key, last_refresh_at, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (client_key)
		DO UPDATE SET last_refresh_at = EXCLUDED.last_refresh_at, updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, clientKey, at.UTC()); err != nil {
		return fmt.Errorf("failed to record refresh: %w", err)
	}
	return nil
}
