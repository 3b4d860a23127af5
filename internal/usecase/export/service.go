package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/duitku/duitku-backend/internal/domain"
)

const sheetName = "Expenses"

// dateLayout matches the en-GB rendering used across the product UI
const dateLayout = "02 Jan 2006 15:04"

// Service renders a ledger into an xlsx workbook, one row per expense
// across all periods in creation order. The export is a portable dump of
// the same document the stores persist.
type Service struct{}

// NewService creates a new export service
func NewService() *Service {
	return &Service{}
}

// Workbook builds the spreadsheet for a ledger snapshot
func (s *Service) Workbook(ledger *domain.Ledger) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headers := []string{"Period Start", "Period End", "Bucket", "Name", "Amount", "Date"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	row := 2
	for _, p := range ledger.Periods {
		end := "open"
		if p.EndDate != nil {
			end = FormatDate(*p.EndDate)
		}
		for _, e := range p.Expenses {
			values := []interface{}{
				FormatDate(p.StartDate),
				end,
				string(e.Type),
				e.Name,
				e.Amount,
				FormatDate(e.Date),
			}
			for i, v := range values {
				cell := fmt.Sprintf("%c%d", 'A'+i, row)
				if err := f.SetCellValue(sheetName, cell, v); err != nil {
					return nil, fmt.Errorf("write row %d: %w", row, err)
				}
			}
			row++
		}
	}

	_ = f.SetColWidth(sheetName, "A", "B", 18)
	_ = f.SetColWidth(sheetName, "C", "C", 10)
	_ = f.SetColWidth(sheetName, "D", "D", 30)
	_ = f.SetColWidth(sheetName, "E", "F", 18)

	return f, nil
}

// FormatDate renders a timestamp the way the summary screens do
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
