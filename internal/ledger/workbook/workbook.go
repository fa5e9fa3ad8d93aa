// Package workbook implements the ledger store on a single xlsx workbook.
//
// The workbook holds three sheets with fixed column order: Expenses (Date,
// Amount, Category, Description), Budgets (Month, Budget, Spent, Remaining)
// and Categories (Category, Total, Percentage). Row 1 of each sheet is the
// header; data starts at row 2. Every mutating operation ends with a full
// save of the file — there is no transaction log and a crash mid-save can
// corrupt the file.
package workbook

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"spendbook/internal/core"
	"spendbook/internal/ledger"

	"github.com/xuri/excelize/v2"
)

const (
	expenseSheet  = "Expenses"
	budgetSheet   = "Budgets"
	categorySheet = "Categories"
)

var (
	expenseHeader  = []any{"Date", "Amount", "Category", "Description"}
	budgetHeader   = []any{"Month", "Budget", "Spent", "Remaining"}
	categoryHeader = []any{"Category", "Total", "Percentage"}
)

// Store owns the workbook file handle. It assumes exclusive single-process
// access to the backing file; there is no locking against other processes.
type Store struct {
	mu      sync.Mutex
	path    string
	file    *excelize.File
	skipped int
}

var _ ledger.Store = (*Store)(nil)

// Open loads the workbook at path, creating it with the three empty headed
// sheets if it does not exist. Opening an existing valid file changes
// nothing in it.
func Open(path string) (*Store, error) {
	f, err := load(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, file: f}, nil
}

func load(path string) (*excelize.File, error) {
	if _, err := os.Stat(path); err == nil {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open workbook %s: %w", path, err)
		}
		return f, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat workbook %s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", expenseSheet); err != nil {
		return nil, fmt.Errorf("name expense sheet: %w", err)
	}
	for _, name := range []string{budgetSheet, categorySheet} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}
	headers := map[string][]any{
		expenseSheet:  expenseHeader,
		budgetSheet:   budgetHeader,
		categorySheet: categoryHeader,
	}
	for sheet, header := range headers {
		if err := setRow(f, sheet, 1, header); err != nil {
			return nil, err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("create workbook %s: %w", path, err)
	}
	return f, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	if err != nil {
		return fmt.Errorf("close workbook: %w", err)
	}
	return nil
}

// Reopen reloads the workbook from disk. Backup and restore close the store,
// copy the file at whole-file granularity, then call Reopen — always, even
// when the copy failed, so the store stays usable.
func (s *Store) Reopen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file != nil {
		_ = s.file.Close()
	}
	f, err := load(s.path)
	if err != nil {
		return err
	}
	s.file = f
	return nil
}

func (s *Store) AppendExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.rows(expenseSheet)
	if err != nil {
		return err
	}
	row := len(rows) + 1
	values := []any{e.Date.Format(core.DateLayout), e.Amount.Float64(), e.Category, e.Description}
	if err := setRow(s.file, expenseSheet, row, values); err != nil {
		return err
	}
	if err := s.save(); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Expense appended",
		"date", e.Date.Format(core.DateLayout),
		"amount_cents", e.Amount.Cents,
		"category", e.Category)
	return nil
}

func (s *Store) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.rows(expenseSheet)
	if err != nil {
		return nil, err
	}
	var out []core.Expense
	skipped := 0
	for i, row := range rows {
		if i == 0 || blank(row) {
			continue
		}
		e, ok := parseExpenseRow(row)
		if !ok {
			skipped++
			continue
		}
		out = append(out, e)
	}
	s.skipped = skipped
	if skipped > 0 {
		slog.WarnContext(ctx, "Skipped malformed expense rows", "count", skipped, "path", s.path)
	}
	return out, nil
}

// SkippedRows reports how many malformed rows the last ListExpenses dropped.
func (s *Store) SkippedRows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skipped
}

func (s *Store) UpsertBudget(ctx context.Context, month string, amount core.Money) error {
	if !core.ValidMonth(month) {
		return core.ErrInvalidMonth
	}
	if err := amount.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.rows(budgetSheet)
	if err != nil {
		return err
	}
	target := len(rows) + 1
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		if strings.TrimSpace(row[0]) == month {
			target = i + 1
			break
		}
	}
	b := core.NewBudget(month, amount)
	if err := setRow(s.file, budgetSheet, target, budgetValues(b)); err != nil {
		return err
	}
	if err := s.save(); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Budget set", "month", month, "amount_cents", amount.Cents)
	return nil
}

func (s *Store) GetBudget(_ context.Context, month string) (core.Budget, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, _, ok, err := s.findBudget(month)
	return b, ok, err
}

func (s *Store) AddToBudgetSpent(ctx context.Context, month string, delta core.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, row, ok, err := s.findBudget(month)
	if err != nil {
		return err
	}
	if !ok {
		// No budget row for the month: the update is dropped.
		slog.DebugContext(ctx, "No budget for month, spent update dropped", "month", month)
		return nil
	}
	b.AddSpent(delta)
	if err := setRow(s.file, budgetSheet, row, budgetValues(b)); err != nil {
		return err
	}
	return s.save()
}

func (s *Store) ReplaceCategoryStats(_ context.Context, stats []core.CategoryStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.rows(categorySheet)
	if err != nil {
		return err
	}
	for i := len(rows); i >= 2; i-- {
		if err := s.file.RemoveRow(categorySheet, i); err != nil {
			return fmt.Errorf("clear category row %d: %w", i, err)
		}
	}
	for i, st := range stats {
		values := []any{st.Category, st.Total.Float64(), st.Percentage}
		if err := setRow(s.file, categorySheet, i+2, values); err != nil {
			return err
		}
	}
	return s.save()
}

func (s *Store) ListCategoryStats(_ context.Context) ([]core.CategoryStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.rows(categorySheet)
	if err != nil {
		return nil, err
	}
	var out []core.CategoryStat
	for i, row := range rows {
		if i == 0 || len(row) < 3 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		total, ok := parseCellAmount(row[1])
		if !ok {
			continue
		}
		out = append(out, core.CategoryStat{
			Category:   strings.TrimSpace(row[0]),
			Total:      total,
			Percentage: strings.TrimSpace(row[2]),
		})
	}
	return out, nil
}

func (s *Store) rows(sheet string) ([][]string, error) {
	if s.file == nil {
		return nil, fmt.Errorf("workbook %s is closed", s.path)
	}
	rows, err := s.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func (s *Store) save() error {
	if err := s.file.Save(); err != nil {
		return fmt.Errorf("save workbook %s: %w", s.path, err)
	}
	return nil
}

// findBudget returns the month's budget and its 1-based sheet row.
func (s *Store) findBudget(month string) (core.Budget, int, bool, error) {
	rows, err := s.rows(budgetSheet)
	if err != nil {
		return core.Budget{}, 0, false, err
	}
	for i, row := range rows {
		if i == 0 || len(row) < 4 {
			continue
		}
		if strings.TrimSpace(row[0]) != month {
			continue
		}
		amount, ok1 := parseCellAmount(row[1])
		spent, ok2 := parseCellAmount(row[2])
		remaining, ok3 := parseCellAmount(row[3])
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		b := core.Budget{Month: month, Amount: amount, Spent: spent, Remaining: remaining}
		return b, i + 1, true, nil
	}
	return core.Budget{}, 0, false, nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func budgetValues(b core.Budget) []any {
	return []any{b.Month, b.Amount.Float64(), b.Spent.Float64(), b.Remaining.Float64()}
}

// parseExpenseRow converts a raw sheet row into an expense. Description may
// be empty, so three cells is the minimum well-formed width.
func parseExpenseRow(row []string) (core.Expense, bool) {
	if len(row) < 3 {
		return core.Expense{}, false
	}
	date, err := time.Parse(core.DateLayout, strings.TrimSpace(row[0]))
	if err != nil {
		return core.Expense{}, false
	}
	amount, ok := parseCellAmount(row[1])
	if !ok {
		return core.Expense{}, false
	}
	e := core.Expense{
		Date:     date,
		Amount:   amount,
		Category: strings.TrimSpace(row[2]),
	}
	if len(row) >= 4 {
		e.Description = row[3]
	}
	return e, true
}

// parseCellAmount is deliberately lenient: cell values come back as formatted
// strings and stored amounts are not re-validated on read.
func parseCellAmount(s string) (core.Money, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return core.Money{}, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return core.Money{}, false
	}
	return core.Money{Cents: int64(math.Round(f * 100.0))}, true
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
