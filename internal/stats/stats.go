// Package stats recomputes category spending statistics from scratch. The
// result is point-in-time: it goes stale the moment another expense lands
// and is only refreshed by running Recompute again.
package stats

import (
	"fmt"

	"spendbook/internal/core"
)

// Recompute groups expenses by category, summing amounts and deriving each
// category's share of the grand total. Output order is the order in which
// categories are first encountered while scanning the input. Percentages are
// rendered with one decimal place ("23.5%"); a zero grand total yields
// "0.0%" for every category.
func Recompute(expenses []core.Expense) []core.CategoryStat {
	totals := map[string]int64{}
	order := make([]string, 0)
	var grand int64
	for _, e := range expenses {
		if _, seen := totals[e.Category]; !seen {
			order = append(order, e.Category)
		}
		totals[e.Category] += e.Amount.Cents
		grand += e.Amount.Cents
	}

	out := make([]core.CategoryStat, 0, len(order))
	for _, name := range order {
		total := totals[name]
		pct := 0.0
		if grand != 0 {
			pct = float64(total) / float64(grand) * 100.0
		}
		out = append(out, core.CategoryStat{
			Category:   name,
			Total:      core.Money{Cents: total},
			Percentage: fmt.Sprintf("%.1f%%", pct),
		})
	}
	return out
}
