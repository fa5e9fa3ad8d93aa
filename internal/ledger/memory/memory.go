// Package memory implements the ledger store in process memory. It backs
// tests and throwaway sessions where no workbook file should be written.
package memory

import (
	"context"
	"sync"

	"spendbook/internal/core"
	"spendbook/internal/ledger"
)

type Store struct {
	mu      sync.Mutex
	items   []core.Expense
	budgets []core.Budget
	stats   []core.CategoryStat
}

var _ ledger.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) AppendExpense(_ context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, e)
	return nil
}

func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense(nil), s.items...), nil
}

func (s *Store) UpsertBudget(_ context.Context, month string, amount core.Money) error {
	if !core.ValidMonth(month) {
		return core.ErrInvalidMonth
	}
	if err := amount.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b := core.NewBudget(month, amount)
	for i := range s.budgets {
		if s.budgets[i].Month == month {
			s.budgets[i] = b
			return nil
		}
	}
	s.budgets = append(s.budgets, b)
	return nil
}

func (s *Store) GetBudget(_ context.Context, month string) (core.Budget, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.budgets {
		if b.Month == month {
			return b, true, nil
		}
	}
	return core.Budget{}, false, nil
}

func (s *Store) AddToBudgetSpent(_ context.Context, month string, delta core.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.budgets {
		if s.budgets[i].Month == month {
			s.budgets[i].AddSpent(delta)
			return nil
		}
	}
	// No budget row for the month: the update is dropped.
	return nil
}

func (s *Store) ReplaceCategoryStats(_ context.Context, stats []core.CategoryStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = append([]core.CategoryStat(nil), stats...)
	return nil
}

func (s *Store) ListCategoryStats(_ context.Context) ([]core.CategoryStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.CategoryStat(nil), s.stats...), nil
}

func (s *Store) Close() error {
	return nil
}
