package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Refresher reloads state from durable storage.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// StartAutoRefresh calls r.Refresh every interval until ctx is done.
// Failures are logged and retried on the next tick.
func StartAutoRefresh(
	ctx context.Context,
	r Refresher,
	interval time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := r.Refresh(ctx); err != nil {
					log.Error("failed to refresh data", zap.Error(err))
					continue
				}
				log.Debug("data refreshed")
			}
		}
	}()
}
