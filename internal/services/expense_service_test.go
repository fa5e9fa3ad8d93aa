package services

import (
	"context"
	"testing"
	"time"

	"spendbook/internal/budget"
	"spendbook/internal/core"
	"spendbook/internal/ledger/memory"
)

func newTestService() (*ExpenseService, *memory.Store) {
	store := memory.New()
	return NewExpenseService(store, budget.NewTracker(store)), store
}

func expense(day int, cents int64, category, desc string) core.Expense {
	return core.Expense{
		Date:        time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC),
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Description: desc,
	}
}

func TestAddExpenseUpdatesBudget(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()
	if err := svc.SetBudget(ctx, "March", core.Money{Cents: 50000}); err != nil {
		t.Fatalf("set budget: %v", err)
	}

	if err := svc.AddExpense(ctx, expense(5, 12000, "food", "groceries")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.AddExpense(ctx, expense(9, 20000, "transport", "train")); err != nil {
		t.Fatalf("add: %v", err)
	}

	b, ok, err := store.GetBudget(ctx, "March")
	if err != nil || !ok {
		t.Fatalf("get budget: ok=%v err=%v", ok, err)
	}
	if b.Spent.Cents != 32000 || b.Remaining.Cents != 18000 {
		t.Fatalf("expected spent=32000 remaining=18000, got %+v", b)
	}

	got, err := store.ListExpenses(ctx)
	if err != nil || len(got) != 2 {
		t.Fatalf("expected 2 expenses, got %d err=%v", len(got), err)
	}
}

func TestAddExpenseRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()
	if err := svc.AddExpense(ctx, expense(1, 0, "food", "")); err == nil {
		t.Fatalf("expected validation error")
	}
	if got, _ := store.ListExpenses(ctx); len(got) != 0 {
		t.Fatalf("invalid expense must not be appended")
	}
}

func TestRefreshStatsPersists(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()
	for _, e := range []core.Expense{
		expense(1, 10000, "food", ""),
		expense(2, 5000, "transport", ""),
	} {
		if err := svc.AddExpense(ctx, e); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	fresh, err := svc.RefreshStats(ctx)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	stored, err := store.ListCategoryStats(ctx)
	if err != nil {
		t.Fatalf("list stats: %v", err)
	}
	if len(fresh) != 2 || len(stored) != 2 {
		t.Fatalf("expected 2 stats, got fresh=%d stored=%d", len(fresh), len(stored))
	}
	if stored[0].Category != "food" || stored[0].Percentage != "66.7%" {
		t.Fatalf("unexpected stored stat: %+v", stored[0])
	}
	var sum int64
	for _, st := range stored {
		sum += st.Total.Cents
	}
	if sum != 15000 {
		t.Fatalf("stat totals should equal expense sum, got %d", sum)
	}
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	for _, e := range []core.Expense{
		expense(5, 1250, "food", "lunch at the station"),
		expense(9, 800, "transport", "bus ticket"),
		expense(14, 4200, "books", "go textbook"),
	} {
		if err := svc.AddExpense(ctx, e); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	tests := []struct {
		name  string
		query string
		field SearchField
		want  int
	}{
		{"empty query returns all", "", SearchAll, 3},
		{"category match", "transport", SearchCategory, 1},
		{"description substring", "ticket", SearchDescription, 1},
		{"date substring", "2025-03-14", SearchDate, 1},
		{"all matches description", "station", SearchAll, 1},
		{"all matches amount", "12.5", SearchAll, 1},
		{"case insensitive", "FOOD", SearchCategory, 1},
		{"no match", "zz", SearchAll, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Search(ctx, tt.query, tt.field)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("expected %d results, got %d", tt.want, len(got))
			}
		})
	}
}

func TestCloseNilStore(t *testing.T) {
	svc := &ExpenseService{}
	if err := svc.Close(); err != nil {
		t.Fatalf("close with nil store: %v", err)
	}
}
