// Package report assembles monthly spending reports for external consumers.
// Data assembly is separate from rendering: BuildMonthly produces a Summary
// from consistent ledger reads, and the PDF renderer formats one.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"spendbook/internal/core"
	"spendbook/internal/ledger"
	"spendbook/internal/stats"
)

// Summary is a point-in-time monthly report.
type Summary struct {
	Month       string
	GeneratedAt time.Time
	Expenses    []core.Expense      // the month's expenses, date ascending
	Total       core.Money
	Budget      *core.Budget        // nil when no budget is set for the month
	ByCategory  []core.CategoryStat // month-local breakdown, amount descending
	Suggestions []string
}

// BuildMonthly gathers everything the report needs for one month label from
// the ledger's read operations.
func BuildMonthly(ctx context.Context, month string, expenses ledger.ExpenseLister, budgets ledger.BudgetStore) (Summary, error) {
	if !core.ValidMonth(month) {
		return Summary{}, core.ErrInvalidMonth
	}
	all, err := expenses.ListExpenses(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list expenses: %w", err)
	}

	var monthly []core.Expense
	for _, e := range all {
		if core.MonthLabel(e.Date) == month {
			monthly = append(monthly, e)
		}
	}
	sort.SliceStable(monthly, func(i, j int) bool { return monthly[i].Date.Before(monthly[j].Date) })

	var total int64
	for _, e := range monthly {
		total += e.Amount.Cents
	}

	byCat := stats.Recompute(monthly)
	sort.SliceStable(byCat, func(i, j int) bool { return byCat[i].Total.Cents > byCat[j].Total.Cents })

	s := Summary{
		Month:       month,
		GeneratedAt: time.Now(),
		Expenses:    monthly,
		Total:       core.Money{Cents: total},
		ByCategory:  byCat,
	}

	b, ok, err := budgets.GetBudget(ctx, month)
	if err != nil {
		return Summary{}, fmt.Errorf("get budget: %w", err)
	}
	if ok {
		s.Budget = &b
	}

	s.Suggestions = suggestions(monthly, s.Budget, byCat)
	return s, nil
}

// BudgetUsage returns the spent share of the allocation as a percentage, and
// whether it is defined (a zero allocation has no usage figure).
func (s Summary) BudgetUsage() (float64, bool) {
	if s.Budget == nil || s.Budget.Amount.Cents <= 0 {
		return 0, false
	}
	return float64(s.Budget.Spent.Cents) / float64(s.Budget.Amount.Cents) * 100.0, true
}

func suggestions(monthly []core.Expense, b *core.Budget, byCat []core.CategoryStat) []string {
	if len(monthly) == 0 || b == nil {
		return []string{"Keep up the good spending habits!"}
	}
	var out []string
	if b.Remaining.Cents < 0 {
		over := core.Money{Cents: -b.Remaining.Cents}
		out = append(out, fmt.Sprintf("This month's budget is overspent by %s; rein in spending.", over))
	} else if b.Amount.Cents > 0 && b.Spent.Cents*5 > b.Amount.Cents*4 {
		out = append(out, "More than 80% of this month's budget is used; watch the remaining spending.")
	}
	if len(byCat) > 0 {
		top := byCat[0]
		out = append(out, fmt.Sprintf("%s is the highest spending category (%s); consider trimming it.", top.Category, top.Total))
	}
	return out
}
