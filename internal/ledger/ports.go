package ledger

import (
	"context"

	"spendbook/internal/core"
)

// Ports for the tabular store adapters.
type (
	ExpenseAppender interface {
		// AppendExpense adds one row to the expense table and persists it.
		// Duplicates are permitted; rows are never updated or deleted.
		AppendExpense(ctx context.Context, e core.Expense) error
	}

	ExpenseLister interface {
		// ListExpenses returns all well-formed expense rows in insertion
		// order. Malformed rows are dropped, not reported.
		ListExpenses(ctx context.Context) ([]core.Expense, error)
	}

	BudgetStore interface {
		// UpsertBudget overwrites the month's budget row, resetting spent to
		// zero, or inserts a new row. At most one row exists per month.
		UpsertBudget(ctx context.Context, month string, amount core.Money) error

		// GetBudget returns the month's budget and whether one exists.
		GetBudget(ctx context.Context, month string) (core.Budget, bool, error)

		// AddToBudgetSpent charges delta against the month's budget. A month
		// with no budget row is a silent no-op.
		AddToBudgetSpent(ctx context.Context, month string, delta core.Money) error
	}

	StatStore interface {
		// ReplaceCategoryStats discards all stored category statistics and
		// writes stats in their place.
		ReplaceCategoryStats(ctx context.Context, stats []core.CategoryStat) error

		// ListCategoryStats returns the stored statistics in insertion order.
		ListCategoryStats(ctx context.Context) ([]core.CategoryStat, error)
	}

	// Store is the full ledger: three logical tables behind one handle.
	Store interface {
		ExpenseAppender
		ExpenseLister
		BudgetStore
		StatStore
		Close() error
	}
)
