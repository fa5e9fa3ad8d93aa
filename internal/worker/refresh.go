// Package worker holds the periodic background jobs run by watch mode.
package worker

import (
	"context"
	"log/slog"
	"time"

	"spendbook/internal/services"
)

// StatsRefresher periodically recomputes the category breakdown so the
// Categories sheet stays current while the process is running.
type StatsRefresher struct {
	service  *services.ExpenseService
	interval time.Duration
}

func NewStatsRefresher(service *services.ExpenseService, interval time.Duration) *StatsRefresher {
	return &StatsRefresher{
		service:  service,
		interval: interval,
	}
}

// Run refreshes once immediately, then on every tick until the context is
// cancelled. A failed refresh is logged and retried on the next tick.
func (r *StatsRefresher) Run(ctx context.Context) error {
	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *StatsRefresher) refresh(ctx context.Context) {
	stats, err := r.service.RefreshStats(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Stats refresh failed", "error", err)
		return
	}
	slog.InfoContext(ctx, "Category stats refreshed", "categories", len(stats))
}
