package core

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the date format used in the workbook and everywhere expenses
// are shown or searched.
const DateLayout = "2006-01-02"

type (
	Money struct {
		Cents int64
	}

	Expense struct {
		Date        time.Time
		Amount      Money
		Category    string
		Description string
	}

	// Budget tracks one calendar month's allocation. Remaining is always
	// Amount minus Spent and may go negative.
	Budget struct {
		Month     string
		Amount    Money
		Spent     Money
		Remaining Money
	}

	// CategoryStat is a derived per-category total. Percentage is the stored
	// representation ("23.5%"); there is no retained numeric value.
	CategoryStat struct {
		Category   string
		Total      Money
		Percentage string
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyCategory = errors.New("empty category")
	ErrInvalidMonth  = errors.New("invalid month label")
)

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

// NewBudget returns a fresh budget row: nothing spent, everything remaining.
func NewBudget(month string, amount Money) Budget {
	return Budget{Month: month, Amount: amount, Remaining: amount}
}

// AddSpent charges delta against the budget and rederives the remaining
// balance from the allocation.
func (b *Budget) AddSpent(delta Money) {
	b.Spent.Cents += delta.Cents
	b.Remaining.Cents = b.Amount.Cents - b.Spent.Cents
}

// MonthLabel returns the budget month label for a date ("January".."December").
func MonthLabel(t time.Time) string {
	return t.Month().String()
}

// ValidMonth reports whether label is one of the twelve month labels.
func ValidMonth(label string) bool {
	for m := time.January; m <= time.December; m++ {
		if m.String() == label {
			return true
		}
	}
	return false
}
