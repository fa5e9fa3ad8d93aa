package report

import (
	"fmt"
	"io"
	"os"

	"github.com/signintech/gopdf"
)

const fontName = "report"

// A4 geometry in points.
const (
	pageWidth  = 595.0
	pageBottom = 790.0
	marginLeft = 40.0
	lineHeight = 18.0
	sectionGap = 12.0
)

// RenderPDF writes the summary as an A4 document. gopdf ships no fonts, so
// the caller supplies a TTF file path.
func RenderPDF(s Summary, fontPath string, w io.Writer) error {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	if err := pdf.AddTTFFont(fontName, fontPath); err != nil {
		return fmt.Errorf("load report font %s: %w", fontPath, err)
	}

	r := &renderer{pdf: &pdf}
	r.page()

	// Header band
	pdf.SetFillColor(52, 73, 94)
	pdf.RectFromUpperLeftWithStyle(0, 0, pageWidth, 90, "F")
	pdf.SetTextColor(255, 255, 255)
	r.text(marginLeft, 30, 22, fmt.Sprintf("%s Spending Report", s.Month))
	r.text(marginLeft, 62, 11, "Generated "+s.GeneratedAt.Format("2006-01-02 15:04:05"))
	pdf.SetTextColor(45, 52, 54)
	r.y = 110

	r.heading("Expenses")
	if len(s.Expenses) == 0 {
		r.line(12, "No expenses recorded this month.")
	} else {
		r.expenseRow(12, "Date", "Category", "Description", "Amount")
		for _, e := range s.Expenses {
			desc := e.Description
			if len(desc) > 40 {
				desc = desc[:40] + "..."
			}
			r.expenseRow(11, e.Date.Format("2006-01-02"), e.Category, desc, e.Amount.String())
		}
		r.expenseRow(12, "", "", "Total", s.Total.String())
	}

	r.gap()
	r.heading("Budget")
	if s.Budget == nil {
		r.line(12, "No budget set for this month.")
	} else {
		r.line(12, "Allocation: "+s.Budget.Amount.String())
		r.line(12, "Spent: "+s.Budget.Spent.String())
		r.line(12, "Remaining: "+s.Budget.Remaining.String())
		if usage, ok := s.BudgetUsage(); ok {
			r.line(12, fmt.Sprintf("Usage: %.1f%%", usage))
		}
	}

	r.gap()
	r.heading("Spending by Category")
	if len(s.ByCategory) == 0 {
		r.line(12, "No expenses recorded, nothing to break down.")
	} else {
		for _, st := range s.ByCategory {
			r.line(12, fmt.Sprintf("%-30s %12s  %s", st.Category, st.Total, st.Percentage))
		}
	}

	r.gap()
	r.heading("Suggestions")
	for _, sg := range s.Suggestions {
		r.line(12, sg)
	}

	if r.err != nil {
		return fmt.Errorf("render report: %w", r.err)
	}
	if _, err := pdf.WriteTo(w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// WritePDF renders the summary into a file at path.
func WritePDF(s Summary, fontPath, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	if err := RenderPDF(s, fontPath, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// renderer tracks the cursor and paginates. The first error sticks; later
// drawing calls become no-ops.
type renderer struct {
	pdf *gopdf.GoPdf
	y   float64
	err error
}

func (r *renderer) page() {
	r.pdf.AddPage()
	// Footer with page number
	r.pdf.SetTextColor(120, 120, 120)
	r.text(pageWidth/2-20, pageBottom+20, 9, fmt.Sprintf("Page %d", r.pdf.GetNumberOfPages()))
	r.pdf.SetTextColor(45, 52, 54)
	r.y = 40
}

func (r *renderer) text(x, y, size float64, s string) {
	if r.err != nil {
		return
	}
	if err := r.pdf.SetFont(fontName, "", size); err != nil {
		r.err = err
		return
	}
	r.pdf.SetX(x)
	r.pdf.SetY(y)
	if err := r.pdf.Cell(nil, s); err != nil {
		r.err = err
	}
}

func (r *renderer) advance() {
	r.y += lineHeight
	if r.y > pageBottom-lineHeight {
		r.page()
	}
}

func (r *renderer) heading(s string) {
	r.text(marginLeft, r.y, 14, s)
	r.advance()
}

func (r *renderer) line(size float64, s string) {
	r.text(marginLeft, r.y, size, s)
	r.advance()
}

func (r *renderer) expenseRow(size float64, date, category, desc, amount string) {
	r.text(marginLeft, r.y, size, date)
	r.text(140, r.y, size, category)
	r.text(250, r.y, size, desc)
	r.text(480, r.y, size, amount)
	r.advance()
}

func (r *renderer) gap() {
	r.y += sectionGap
}
