package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Period represents a bounded pay cycle with two salary allocations and the
// expenses logged against them. A nil EndDate means the period is open; it
// is set exactly once, when the period is closed. Salaries and StartDate are
// immutable after creation.
type Period struct {
	ID           uuid.UUID  `json:"id"`
	SalaryPanas  int64      `json:"salaryPanas"`
	SalaryDingin int64      `json:"salaryDingin"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	Expenses     []Expense  `json:"expenses"`
}

// Totals holds the derived per-bucket figures for a period. Remaining may be
// negative; overspending a bucket is a displayable state, not an error.
type Totals struct {
	PanasSpent      int64 `json:"panasSpent"`
	DinginSpent     int64 `json:"dinginSpent"`
	PanasRemaining  int64 `json:"panasRemaining"`
	DinginRemaining int64 `json:"dinginRemaining"`
}

// Open reports whether the period has not been closed yet
func (p *Period) Open() bool {
	return p.EndDate == nil
}

// Close marks the period as ended at the current time.
// Returns ErrInvalidState when the period is already closed.
func (p *Period) Close() error {
	if p.EndDate != nil {
		return fmt.Errorf("%w: period %s is already closed", ErrInvalidState, p.ID)
	}
	now := time.Now()
	p.EndDate = &now
	return nil
}

// AddExpense validates and appends a new expense to the period, returning a
// handle into the period's owned list. On validation failure the expense
// list is left untouched.
func (p *Period) AddExpense(name string, amount int64, bucketType BucketType) (*Expense, error) {
	exp, err := NewExpense(name, amount, bucketType)
	if err != nil {
		return nil, err
	}
	p.Expenses = append(p.Expenses, exp)
	return &p.Expenses[len(p.Expenses)-1], nil
}

// EditExpenseAmount replaces the amount of an existing expense in place.
// Name, type and date are never touched. Returns ErrValidation for a
// non-positive amount and ErrNotFound for an unknown id; neither mutates
// the expense list.
func (p *Period) EditExpenseAmount(expenseID uuid.UUID, newAmount int64) error {
	if newAmount <= 0 {
		return fmt.Errorf("%w: expense amount must be positive", ErrValidation)
	}
	for i := range p.Expenses {
		if p.Expenses[i].ID == expenseID {
			p.Expenses[i].Amount = newAmount
			return nil
		}
	}
	return fmt.Errorf("%w: expense %s not in period %s", ErrNotFound, expenseID, p.ID)
}

// DeleteExpense removes the matching expense, preserving the order of the
// rest. Deleting an id that is not present is a no-op, not an error.
func (p *Period) DeleteExpense(expenseID uuid.UUID) {
	for i := range p.Expenses {
		if p.Expenses[i].ID == expenseID {
			p.Expenses = append(p.Expenses[:i], p.Expenses[i+1:]...)
			return
		}
	}
}

// Totals folds the expense list into per-bucket spent and remaining figures.
// The result is derived on every call; sums are never stored on the period.
func (p *Period) Totals() Totals {
	var panas, dingin int64
	for _, e := range p.Expenses {
		if e.Type == BucketPanas {
			panas += e.Amount
		} else {
			dingin += e.Amount
		}
	}
	return Totals{
		PanasSpent:      panas,
		DinginSpent:     dingin,
		PanasRemaining:  p.SalaryPanas - panas,
		DinginRemaining: p.SalaryDingin - dingin,
	}
}
