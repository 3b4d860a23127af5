package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duitku/duitku-backend/internal/domain"
)

func TestWorkbook(t *testing.T) {
	ledger := domain.NewLedger()
	first, err := ledger.CreatePeriod(1000000, 500000)
	require.NoError(t, err)
	_, err = first.AddExpense("Coffee", 15000, domain.BucketPanas)
	require.NoError(t, err)
	_, err = first.AddExpense("Rent", 2500000, domain.BucketDingin)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	next, err := ledger.CreatePeriod(1200000, 600000)
	require.NoError(t, err)
	_, err = next.AddExpense("Groceries", 120000, domain.BucketPanas)
	require.NoError(t, err)

	f, err := NewService().Workbook(ledger)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Expenses")
	require.NoError(t, err)

	// header plus one row per expense, periods in creation order
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Period Start", "Period End", "Bucket", "Name", "Amount", "Date"}, rows[0])
	assert.Equal(t, "Coffee", rows[1][3])
	assert.Equal(t, "panas", rows[1][2])
	assert.Equal(t, "15000", rows[1][4])
	assert.Equal(t, "Rent", rows[2][3])
	assert.Equal(t, "dingin", rows[2][2])
	assert.Equal(t, "Groceries", rows[3][3])
	assert.Equal(t, "open", rows[3][1], "the active period has no end date")
	assert.NotEqual(t, "open", rows[1][1])
}

func TestWorkbook_EmptyLedger(t *testing.T) {
	f, err := NewService().Workbook(domain.NewLedger())
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Expenses")
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}
