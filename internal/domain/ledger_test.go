package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_CreatePeriod(t *testing.T) {
	ledger := NewLedger()

	p, err := ledger.CreatePeriod(1000000, 500000)
	require.NoError(t, err)

	assert.Len(t, ledger.Periods, 1)
	assert.True(t, p.Open())
	assert.Empty(t, p.Expenses)
	require.NotNil(t, ledger.ActivePeriodID)
	assert.Equal(t, p.ID, *ledger.ActivePeriodID)

	// negative salary is rejected without touching the ledger
	_, err = ledger.CreatePeriod(-1, 0)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Len(t, ledger.Periods, 1)
}

func TestLedger_ActivePeriod(t *testing.T) {
	ledger := NewLedger()

	// pre-bootstrap ledger has no active period
	_, err := ledger.ActivePeriod()
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := ledger.CreatePeriod(0, 0)
	require.NoError(t, err)

	active, err := ledger.ActivePeriod()
	require.NoError(t, err)
	assert.Same(t, created, active, "operations hand out references into the owned collection")
}

func TestLedger_CloseThenCreate_ExactlyOneOpenPeriod(t *testing.T) {
	ledger := NewLedger()
	first, err := ledger.CreatePeriod(1000000, 500000)
	require.NoError(t, err)

	require.NoError(t, first.Close())
	next, err := ledger.CreatePeriod(1200000, 600000)
	require.NoError(t, err)

	open := 0
	for _, p := range ledger.Periods {
		if p.Open() {
			open++
		}
	}
	assert.Equal(t, 1, open)
	assert.True(t, next.Open())
	assert.Equal(t, next.ID, *ledger.ActivePeriodID)

	// creation order is preserved
	assert.Equal(t, first.ID, ledger.Periods[0].ID)
	assert.Equal(t, next.ID, ledger.Periods[1].ID)
}

func TestLedger_BootstrapScenario(t *testing.T) {
	ledger := NewLedger()

	p, err := ledger.CreatePeriod(0, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(0), p.SalaryPanas)
	assert.Equal(t, int64(0), p.SalaryDingin)
	assert.Nil(t, p.EndDate)
	assert.Empty(t, p.Expenses)
	assert.Equal(t, Totals{}, p.Totals())
}

func TestLedger_Clone(t *testing.T) {
	ledger := NewLedger()
	p, err := ledger.CreatePeriod(1000000, 0)
	require.NoError(t, err)
	_, err = p.AddExpense("Coffee", 15000, BucketPanas)
	require.NoError(t, err)
	require.NoError(t, p.Close())

	clone := ledger.Clone()
	require.Len(t, clone.Periods, 1)
	assert.Equal(t, *ledger.Periods[0], *clone.Periods[0])

	// mutating the clone never reaches the owned state
	clone.Periods[0].Expenses[0].Amount = 99
	clone.Periods[0].EndDate = nil
	clone.ActivePeriodID = nil
	assert.Equal(t, int64(15000), ledger.Periods[0].Expenses[0].Amount)
	assert.NotNil(t, ledger.Periods[0].EndDate)
	assert.NotNil(t, ledger.ActivePeriodID)
}

func TestLedger_DocumentShape(t *testing.T) {
	// the encoded ledger is the wire document: {"periods", "activePeriodId"}
	ledger := NewLedger()
	_, err := ledger.CreatePeriod(0, 0)
	require.NoError(t, err)

	raw, err := json.Marshal(ledger)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "periods")
	assert.Contains(t, doc, "activePeriodId")
}
