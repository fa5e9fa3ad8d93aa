package core

import (
	"testing"
	"time"
)

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: -100}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Date:        time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Amount:      Money{Cents: 100},
		Category:    "Food",
		Description: "lunch",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Date: time.Time{}, Amount: Money{Cents: 1}, Category: "c"}, // zero date
		{Date: good.Date, Amount: Money{Cents: 0}, Category: "c"},
		{Date: good.Date, Amount: Money{Cents: 1}, Category: "  "},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestBudgetAddSpent(t *testing.T) {
	b := NewBudget("March", Money{Cents: 50000})
	if b.Spent.Cents != 0 || b.Remaining.Cents != 50000 {
		t.Fatalf("new budget should start unspent, got %+v", b)
	}
	b.AddSpent(Money{Cents: 12000})
	b.AddSpent(Money{Cents: 20000})
	if b.Spent.Cents != 32000 || b.Remaining.Cents != 18000 {
		t.Fatalf("expected spent=32000 remaining=18000, got %+v", b)
	}
	b.AddSpent(Money{Cents: 30000})
	if b.Remaining.Cents != -12000 {
		t.Fatalf("remaining should go negative, got %d", b.Remaining.Cents)
	}
}

func TestMonthLabel(t *testing.T) {
	if got := MonthLabel(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)); got != "March" {
		t.Fatalf("expected March, got %s", got)
	}
	if !ValidMonth("December") {
		t.Fatalf("December should be valid")
	}
	if ValidMonth("Marzo") || ValidMonth("") {
		t.Fatalf("non-labels should be invalid")
	}
}
