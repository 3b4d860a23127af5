package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/duitku/duitku-backend/internal/domain"
	"github.com/duitku/duitku-backend/internal/usecase/gateway"
)

// State is the lifecycle state of a session
type State string

const (
	StateLoggedOut      State = "LOGGED_OUT"
	StateAuthenticating State = "AUTHENTICATING"
	StateLoading        State = "LOADING"
	StateReady          State = "READY"
)

// Session owns one user's in-memory ledger and its write-through
// persistence. Every mutation runs against the single owned ledger and is
// immediately followed by a write to both backends; a remote failure is
// logged and dropped, never rolled back and never retried.
//
// There is exactly one logical writer per session. The mutex only serializes
// concurrent HTTP requests that land on the same session.
type Session struct {
	mu       sync.Mutex
	identity string
	state    State
	ledger   *domain.Ledger
	gw       *gateway.Gateway
}

// Identity returns the stable identity string this session is bound to
func (s *Session) Identity() string {
	return s.identity
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CloudSyncEnabled reports whether this session has a reachable remote
// backend. Used for the one-time advisory shown at session start.
func (s *Session) CloudSyncEnabled() bool {
	return s.gw.RemoteEnabled()
}

// load runs the Loading state: remote first, local as fallback, empty as
// last resort. A corrupt local slot is treated as absent. When the loaded
// ledger has no active period yet, a zero-salary period is bootstrapped and
// written through before the session becomes Ready.
func (s *Session) load(ctx context.Context) error {
	s.state = StateLoading

	ledger, err := s.gw.LoadRemote(ctx)
	if err != nil {
		log.Printf("session %s: cloud load failed, falling back to local: %v", s.identity, err)
	}
	if ledger == nil {
		ledger, err = s.gw.LoadLocal(ctx)
		if err != nil {
			if !errors.Is(err, domain.ErrCorruptData) {
				return err
			}
			log.Printf("session %s: local ledger unreadable, starting empty: %v", s.identity, err)
			ledger = nil
		}
	}
	if ledger == nil {
		ledger = domain.NewLedger()
	}
	s.ledger = ledger

	if s.ledger.ActivePeriodID == nil {
		if _, err := s.ledger.CreatePeriod(0, 0); err != nil {
			return err
		}
		if err := s.persist(ctx); err != nil {
			return err
		}
	}

	s.state = StateReady
	return nil
}

// persist is the write-through step after every mutation. The local write
// must succeed; a failed remote write is logged and dropped so the session
// stays usable offline.
func (s *Session) persist(ctx context.Context) error {
	if err := s.gw.SaveBoth(ctx, s.ledger); err != nil {
		if errors.Is(err, domain.ErrRemoteWrite) || errors.Is(err, domain.ErrRemoteRead) {
			log.Printf("session %s: remote write dropped: %v", s.identity, err)
			return nil
		}
		return err
	}
	return nil
}

func (s *Session) ready() error {
	if s.state != StateReady {
		return fmt.Errorf("%w: session is %s, not ready", domain.ErrInvalidState, s.state)
	}
	return nil
}

// AddExpense appends a validated expense to the active period and writes
// the ledger through. Returns a copy of the created expense.
func (s *Session) AddExpense(ctx context.Context, name string, amount int64, bucketType domain.BucketType) (domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return domain.Expense{}, err
	}

	period, err := s.ledger.ActivePeriod()
	if err != nil {
		return domain.Expense{}, err
	}
	exp, err := period.AddExpense(name, amount, bucketType)
	if err != nil {
		return domain.Expense{}, err
	}
	return *exp, s.persist(ctx)
}

// EditExpenseAmount replaces the amount of an expense in the active period
// and writes the ledger through. Validation and lookup failures leave the
// ledger untouched and skip persistence.
func (s *Session) EditExpenseAmount(ctx context.Context, expenseID uuid.UUID, newAmount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}

	period, err := s.ledger.ActivePeriod()
	if err != nil {
		return err
	}
	if err := period.EditExpenseAmount(expenseID, newAmount); err != nil {
		return err
	}
	return s.persist(ctx)
}

// DeleteExpense removes an expense from the active period and writes the
// ledger through. An absent id is a no-op but still persists, matching the
// unconditional full-document write-through.
func (s *Session) DeleteExpense(ctx context.Context, expenseID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}

	period, err := s.ledger.ActivePeriod()
	if err != nil {
		return err
	}
	period.DeleteExpense(expenseID)
	return s.persist(ctx)
}

// StartNewPeriod closes the active period and opens the next one with the
// given salaries. Closing always precedes opening, so the ledger never
// holds two open periods. Returns a copy of the new period.
func (s *Session) StartNewPeriod(ctx context.Context, salaryPanas, salaryDingin int64) (domain.Period, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return domain.Period{}, err
	}

	if salaryPanas < 0 || salaryDingin < 0 {
		return domain.Period{}, fmt.Errorf("%w: salaries must be non-negative", domain.ErrValidation)
	}

	active, err := s.ledger.ActivePeriod()
	if err != nil {
		return domain.Period{}, err
	}
	if err := active.Close(); err != nil {
		return domain.Period{}, err
	}
	next, err := s.ledger.CreatePeriod(salaryPanas, salaryDingin)
	if err != nil {
		return domain.Period{}, err
	}

	cp := *next
	cp.Expenses = append([]domain.Expense{}, next.Expenses...)
	return cp, s.persist(ctx)
}

// Snapshot returns a deep copy of the ledger for the presentation layer,
// which re-queries after every mutation; the core raises no events.
func (s *Session) Snapshot() (*domain.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.ledger.Clone(), nil
}

// ActiveTotals derives the per-bucket totals of the active period
func (s *Session) ActiveTotals() (domain.Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return domain.Totals{}, err
	}

	period, err := s.ledger.ActivePeriod()
	if err != nil {
		return domain.Totals{}, err
	}
	return period.Totals(), nil
}

// ActivePeriod returns a deep copy of the active period
func (s *Session) ActivePeriod() (domain.Period, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return domain.Period{}, err
	}

	period, err := s.ledger.ActivePeriod()
	if err != nil {
		return domain.Period{}, err
	}
	cp := *period
	cp.Expenses = append([]domain.Expense{}, period.Expenses...)
	if period.EndDate != nil {
		end := *period.EndDate
		cp.EndDate = &end
	}
	return cp, nil
}

// Logout clears the in-memory ledger and returns the session to LoggedOut.
// The persisted copies are untouched; a later login reloads them.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = nil
	s.state = StateLoggedOut
}
