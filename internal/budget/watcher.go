package budget

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"spendbook/internal/core"
	"spendbook/internal/ledger"
)

// Alert carries the budget state that tripped the threshold.
type Alert struct {
	Budget    core.Budget
	Threshold int
}

type NotifyFunc func(Alert)

// Watcher periodically re-reads the current month's budget and fires a
// notification when spending reaches the alert threshold percentage. The
// alert is latched: it fires once and re-arms only after spending drops back
// under the threshold.
type Watcher struct {
	budgets   ledger.BudgetStore
	threshold func() int
	notify    NotifyFunc
	interval  time.Duration
	now       func() time.Time
	alerted   bool
}

// NewWatcher builds a watcher. threshold is read on every check so settings
// changes take effect without a restart.
func NewWatcher(budgets ledger.BudgetStore, threshold func() int, interval time.Duration, notify NotifyFunc) *Watcher {
	return &Watcher{
		budgets:   budgets,
		threshold: threshold,
		notify:    notify,
		interval:  interval,
		now:       time.Now,
	}
}

// Check evaluates the current month's budget once and reports whether a new
// alert fired. Months without a budget row never alert.
func (w *Watcher) Check(ctx context.Context) (bool, error) {
	month := core.MonthLabel(w.now())
	b, ok, err := w.budgets.GetBudget(ctx, month)
	if err != nil {
		return false, fmt.Errorf("check budget for %s: %w", month, err)
	}
	if !ok {
		return false, nil
	}
	threshold := w.threshold()
	limit := b.Amount.Cents * int64(threshold) / 100
	switch {
	case b.Spent.Cents >= limit && !w.alerted:
		w.alerted = true
		if w.notify != nil {
			w.notify(Alert{Budget: b, Threshold: threshold})
		}
		return true, nil
	case b.Spent.Cents < limit:
		w.alerted = false
	}
	return false, nil
}

// Run checks immediately, then on every interval tick until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	if _, err := w.Check(ctx); err != nil {
		slog.ErrorContext(ctx, "Budget check failed", "error", err)
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := w.Check(ctx); err != nil {
				slog.ErrorContext(ctx, "Budget check failed", "error", err)
			}
		}
	}
}
