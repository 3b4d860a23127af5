package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Ledger is the root aggregate: the complete per-user state, all periods in
// creation order plus a pointer to the active one. The ledger owns its
// periods; operations hand out references into the owned collection, never
// detached copies, so displayed and persisted state cannot diverge.
//
// The JSON shape is the persisted document format: {"periods", "activePeriodId"}.
type Ledger struct {
	Periods        []*Period  `json:"periods"`
	ActivePeriodID *uuid.UUID `json:"activePeriodId"`
}

// NewLedger creates an empty ledger, the state of a brand-new identity
// before the first period is bootstrapped.
func NewLedger() *Ledger {
	return &Ledger{Periods: []*Period{}}
}

// CreatePeriod appends a new open period with a fresh id and makes it the
// active one. Salaries default to zero; negative salaries are rejected with
// ErrValidation without touching the ledger.
func (l *Ledger) CreatePeriod(salaryPanas, salaryDingin int64) (*Period, error) {
	if salaryPanas < 0 || salaryDingin < 0 {
		return nil, fmt.Errorf("%w: salary cannot be negative", ErrValidation)
	}

	p := &Period{
		ID:           uuid.New(),
		SalaryPanas:  salaryPanas,
		SalaryDingin: salaryDingin,
		StartDate:    time.Now(),
		Expenses:     []Expense{},
	}
	l.Periods = append(l.Periods, p)

	id := p.ID
	l.ActivePeriodID = &id
	return p, nil
}

// ActivePeriod resolves the active-period pointer into the owned collection.
// Returns ErrNotFound before the first period is bootstrapped or when the
// pointer is dangling.
func (l *Ledger) ActivePeriod() (*Period, error) {
	if l.ActivePeriodID == nil {
		return nil, fmt.Errorf("%w: ledger has no active period", ErrNotFound)
	}
	for _, p := range l.Periods {
		if p.ID == *l.ActivePeriodID {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: active period %s not in ledger", ErrNotFound, *l.ActivePeriodID)
}

// Clone returns a deep copy of the ledger for read-only presentation
// snapshots. Mutating the copy never reaches the owned state.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{Periods: make([]*Period, len(l.Periods))}
	for i, p := range l.Periods {
		cp := *p
		cp.Expenses = append([]Expense{}, p.Expenses...)
		if p.EndDate != nil {
			end := *p.EndDate
			cp.EndDate = &end
		}
		c.Periods[i] = &cp
	}
	if l.ActivePeriodID != nil {
		id := *l.ActivePeriodID
		c.ActivePeriodID = &id
	}
	return c
}
