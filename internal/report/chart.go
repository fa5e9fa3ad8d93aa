package report

import "spendbook/internal/core"

// Palette cycled through by chart consumers.
var chartPalette = []string{
	"#A29BFE",
	"#74B9FF",
	"#81ECEC",
	"#FFEAA7",
	"#FAB1A0",
	"#DFE6E9",
	"#55EFC4",
	"#FD79A8",
	"#E17055",
	"#00CEC9",
}

// CategoryChartData is the shape external chart renderers consume.
type CategoryChartData struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage string  `json:"percentage"`
	Color      string  `json:"color"`
}

// ChartData maps stored category statistics onto chart slices, preserving
// their order and assigning palette colors.
func ChartData(stats []core.CategoryStat) []CategoryChartData {
	out := make([]CategoryChartData, 0, len(stats))
	for i, st := range stats {
		out = append(out, CategoryChartData{
			Category:   st.Category,
			Amount:     st.Total.Float64(),
			Percentage: st.Percentage,
			Color:      chartPalette[i%len(chartPalette)],
		})
	}
	return out
}
