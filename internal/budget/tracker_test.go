package budget

import (
	"context"
	"testing"
	"time"

	"spendbook/internal/core"
	"spendbook/internal/ledger/memory"
)

func marchExpense(cents int64) core.Expense {
	return core.Expense{
		Date:     time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Amount:   core.Money{Cents: cents},
		Category: "food",
	}
}

func TestTrackerRecordExpense(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	if err := store.UpsertBudget(ctx, "March", core.Money{Cents: 50000}); err != nil {
		t.Fatalf("upsert budget: %v", err)
	}

	tr := NewTracker(store)
	if err := tr.RecordExpense(ctx, marchExpense(12000)); err != nil {
		t.Fatalf("record expense: %v", err)
	}
	if err := tr.RecordExpense(ctx, marchExpense(20000)); err != nil {
		t.Fatalf("record expense: %v", err)
	}

	b, ok, err := store.GetBudget(ctx, "March")
	if err != nil || !ok {
		t.Fatalf("get budget: ok=%v err=%v", ok, err)
	}
	if b.Spent.Cents != 32000 || b.Remaining.Cents != 18000 {
		t.Fatalf("expected spent=32000 remaining=18000, got %+v", b)
	}
}

func TestTrackerNoBudgetForMonth(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	tr := NewTracker(store)

	// April has no budget row; the update must be dropped without error.
	e := core.Expense{
		Date:     time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Amount:   core.Money{Cents: 100},
		Category: "food",
	}
	if err := tr.RecordExpense(ctx, e); err != nil {
		t.Fatalf("record expense: %v", err)
	}
	if _, ok, _ := store.GetBudget(ctx, "April"); ok {
		t.Fatalf("no budget row should have been created")
	}
}

func TestWatcherLatchesAlert(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	month := "March"
	if err := store.UpsertBudget(ctx, month, core.Money{Cents: 10000}); err != nil {
		t.Fatalf("upsert budget: %v", err)
	}
	if err := store.AddToBudgetSpent(ctx, month, core.Money{Cents: 9500}); err != nil {
		t.Fatalf("add spent: %v", err)
	}

	fired := 0
	var last Alert
	w := NewWatcher(store, func() int { return 90 }, time.Hour, func(a Alert) {
		fired++
		last = a
	})
	w.now = func() time.Time { return time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC) }

	for i := 0; i < 3; i++ {
		if _, err := w.Check(ctx); err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
	}
	if fired != 1 {
		t.Fatalf("alert should fire exactly once while latched, fired %d times", fired)
	}
	if last.Threshold != 90 || last.Budget.Spent.Cents != 9500 {
		t.Fatalf("unexpected alert: %+v", last)
	}

	// Resetting the budget drops spending below the threshold and re-arms.
	if err := store.UpsertBudget(ctx, month, core.Money{Cents: 10000}); err != nil {
		t.Fatalf("upsert budget: %v", err)
	}
	if _, err := w.Check(ctx); err != nil {
		t.Fatalf("check after reset: %v", err)
	}
	if err := store.AddToBudgetSpent(ctx, month, core.Money{Cents: 9900}); err != nil {
		t.Fatalf("add spent: %v", err)
	}
	if _, err := w.Check(ctx); err != nil {
		t.Fatalf("check after respend: %v", err)
	}
	if fired != 2 {
		t.Fatalf("alert should re-arm after dropping under threshold, fired %d times", fired)
	}
}

func TestWatcherNoBudgetNoAlert(t *testing.T) {
	ctx := context.Background()
	w := NewWatcher(memory.New(), func() int { return 90 }, time.Hour, func(Alert) {
		t.Fatalf("alert must not fire without a budget row")
	})
	if fired, err := w.Check(ctx); err != nil || fired {
		t.Fatalf("expected quiet check, fired=%v err=%v", fired, err)
	}
}
