package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"spendbook/internal/budget"
	"spendbook/internal/core"
	"spendbook/internal/ledger"
	"spendbook/internal/stats"
)

// ExpenseService orchestrates expense operations across the ledger store and
// the budget tracker.
type ExpenseService struct {
	store   ledger.Store
	tracker *budget.Tracker
}

func NewExpenseService(store ledger.Store, tracker *budget.Tracker) *ExpenseService {
	return &ExpenseService{
		store:   store,
		tracker: tracker,
	}
}

// AddExpense validates the expense, appends it to the ledger, and charges
// the matching month's budget.
func (s *ExpenseService) AddExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := s.store.AppendExpense(ctx, e); err != nil {
		return fmt.Errorf("append expense: %w", err)
	}
	if s.tracker != nil {
		if err := s.tracker.RecordExpense(ctx, e); err != nil {
			return fmt.Errorf("update budget: %w", err)
		}
	}
	slog.InfoContext(ctx, "Expense recorded",
		"date", e.Date.Format(core.DateLayout),
		"amount_cents", e.Amount.Cents,
		"category", e.Category)
	return nil
}

// RefreshStats recomputes category statistics from the full expense set,
// persists them, and returns the fresh breakdown. Chart consumers call this
// immediately before rendering so the breakdown reflects the latest
// expenses.
func (s *ExpenseService) RefreshStats(ctx context.Context) ([]core.CategoryStat, error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	st := stats.Recompute(expenses)
	if err := s.store.ReplaceCategoryStats(ctx, st); err != nil {
		return nil, fmt.Errorf("replace category stats: %w", err)
	}
	return st, nil
}

// SetBudget replaces the month's budget wholesale; spent resets to zero.
func (s *ExpenseService) SetBudget(ctx context.Context, month string, amount core.Money) error {
	if err := s.store.UpsertBudget(ctx, month, amount); err != nil {
		return fmt.Errorf("set budget: %w", err)
	}
	return nil
}

// Budget returns the month's budget row, if one exists.
func (s *ExpenseService) Budget(ctx context.Context, month string) (core.Budget, bool, error) {
	return s.store.GetBudget(ctx, month)
}

type SearchField string

const (
	SearchAll         SearchField = "all"
	SearchDate        SearchField = "date"
	SearchCategory    SearchField = "category"
	SearchDescription SearchField = "description"
)

// Search filters the full expense list by a case-insensitive substring match
// on the chosen field. An empty query returns everything.
func (s *ExpenseService) Search(ctx context.Context, query string, field SearchField) ([]core.Expense, error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return expenses, nil
	}
	var out []core.Expense
	for _, e := range expenses {
		if matches(e, q, field) {
			out = append(out, e)
		}
	}
	return out, nil
}

func matches(e core.Expense, q string, field SearchField) bool {
	date := strings.ToLower(e.Date.Format(core.DateLayout))
	category := strings.ToLower(e.Category)
	desc := strings.ToLower(e.Description)
	switch field {
	case SearchDate:
		return strings.Contains(date, q)
	case SearchCategory:
		return strings.Contains(category, q)
	case SearchDescription:
		return strings.Contains(desc, q)
	default:
		amount := strconv.FormatFloat(e.Amount.Float64(), 'f', -1, 64)
		return strings.Contains(date, q) ||
			strings.Contains(category, q) ||
			strings.Contains(desc, q) ||
			strings.Contains(amount, q)
	}
}

// Close closes the underlying store.
func (s *ExpenseService) Close() error {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			return fmt.Errorf("close expense service: %w", err)
		}
	}
	return nil
}
