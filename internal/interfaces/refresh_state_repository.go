package interfaces

import (
	"context"
	"time"
)

// RefreshStateRepository persists the last refresh attempt per tenant so the
// cooldown survives restarts.
type RefreshStateRepository interface {
	// LastRefresh returns the zero time when the tenant has never refreshed.
	LastRefresh(ctx context.Context, clientKey string) (time.Time, error)
	RecordRefresh(ctx context.Context, clientKey string, at time.Time) error
}
