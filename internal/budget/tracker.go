// Package budget keeps per-month budget rows consistent with recorded
// spending and raises threshold alerts.
package budget

import (
	"context"
	"fmt"

	"spendbook/internal/core"
	"spendbook/internal/ledger"
)

// Tracker charges expenses against their calendar month's budget. It holds
// no state of its own; everything lives in the ledger store.
type Tracker struct {
	budgets ledger.BudgetStore
}

func NewTracker(budgets ledger.BudgetStore) *Tracker {
	return &Tracker{budgets: budgets}
}

// RecordExpense derives the expense's month label and adds its amount to
// that month's spent total. When the month has no budget row yet the update
// is silently dropped; expenses recorded before a budget exists never apply
// retroactively once one is created.
func (t *Tracker) RecordExpense(ctx context.Context, e core.Expense) error {
	month := core.MonthLabel(e.Date)
	if err := t.budgets.AddToBudgetSpent(ctx, month, e.Amount); err != nil {
		return fmt.Errorf("record expense against %s budget: %w", month, err)
	}
	return nil
}
