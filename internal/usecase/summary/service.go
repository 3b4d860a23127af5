package summary

import (
	"github.com/shopspring/decimal"

	"github.com/duitku/duitku-backend/internal/domain"
)

// BucketSummary holds the display figures for one bucket of a period
type BucketSummary struct {
	Salary     int64           `json:"salary"`
	Spent      int64           `json:"spent"`
	Remaining  int64           `json:"remaining"`
	SpentRatio decimal.Decimal `json:"spentRatio"` // spent / salary, zero when no salary is set
}

// PeriodSummary is the per-bucket breakdown of a single period
type PeriodSummary struct {
	Panas  BucketSummary `json:"panas"`
	Dingin BucketSummary `json:"dingin"`
}

// ForPeriod derives the summary for one period. Pure: everything is
// recomputed from the expense list on every call, nothing is cached.
func ForPeriod(p *domain.Period) PeriodSummary {
	totals := p.Totals()
	return PeriodSummary{
		Panas:  bucketSummary(p.SalaryPanas, totals.PanasSpent),
		Dingin: bucketSummary(p.SalaryDingin, totals.DinginSpent),
	}
}

func bucketSummary(salary, spent int64) BucketSummary {
	s := BucketSummary{
		Salary:    salary,
		Spent:     spent,
		Remaining: salary - spent,
	}
	if salary > 0 {
		s.SpentRatio = decimal.NewFromInt(spent).
			Div(decimal.NewFromInt(salary)).
			Round(4)
	}
	return s
}
