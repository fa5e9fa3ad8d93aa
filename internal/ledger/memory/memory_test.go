package memory

import (
	"context"
	"testing"
	"time"

	"spendbook/internal/core"
)

func TestExpenseRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()
	e := core.Expense{
		Date:     time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		Amount:   core.Money{Cents: 1250},
		Category: "food",
	}
	if err := s.AppendExpense(ctx, e); err != nil {
		t.Fatalf("append: %v", err)
	}
	got, err := s.ListExpenses(ctx)
	if err != nil || len(got) != 1 {
		t.Fatalf("list: got %d err=%v", len(got), err)
	}

	// Mutating the returned slice must not touch the store.
	got[0].Category = "changed"
	again, _ := s.ListExpenses(ctx)
	if again[0].Category != "food" {
		t.Fatalf("store leaked its internal slice")
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New()
	if err := s.AppendExpense(context.Background(), core.Expense{}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestBudgetLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, ok, err := s.GetBudget(ctx, "March"); err != nil || ok {
		t.Fatalf("missing budget should be ok=false err=nil, got ok=%v err=%v", ok, err)
	}
	if err := s.UpsertBudget(ctx, "Marzo", core.Money{Cents: 100}); err != core.ErrInvalidMonth {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}

	if err := s.UpsertBudget(ctx, "March", core.Money{Cents: 50000}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.AddToBudgetSpent(ctx, "March", core.Money{Cents: 32000}); err != nil {
		t.Fatalf("add spent: %v", err)
	}
	b, ok, err := s.GetBudget(ctx, "March")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if b.Spent.Cents != 32000 || b.Remaining.Cents != 18000 {
		t.Fatalf("expected spent=32000 remaining=18000, got %+v", b)
	}

	if err := s.UpsertBudget(ctx, "March", core.Money{Cents: 60000}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	b, _, _ = s.GetBudget(ctx, "March")
	if b.Spent.Cents != 0 || b.Remaining.Cents != 60000 {
		t.Fatalf("upsert should reset spent, got %+v", b)
	}
}

func TestAddSpentWithoutBudgetIsNoOp(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.AddToBudgetSpent(ctx, "July", core.Money{Cents: 500}); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if _, ok, _ := s.GetBudget(ctx, "July"); ok {
		t.Fatalf("no budget row should have been created")
	}
}

func TestReplaceCategoryStats(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.ReplaceCategoryStats(ctx, []core.CategoryStat{
		{Category: "food", Total: core.Money{Cents: 10000}, Percentage: "100.0%"},
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := s.ReplaceCategoryStats(ctx, []core.CategoryStat{
		{Category: "books", Total: core.Money{Cents: 4200}, Percentage: "100.0%"},
	}); err != nil {
		t.Fatalf("replace again: %v", err)
	}
	got, err := s.ListCategoryStats(ctx)
	if err != nil || len(got) != 1 {
		t.Fatalf("list: got %d err=%v", len(got), err)
	}
	if got[0].Category != "books" {
		t.Fatalf("unexpected stat: %+v", got[0])
	}
}
