package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BucketType represents one of the two expense buckets of a period
type BucketType string

const (
	BucketPanas  BucketType = "panas"
	BucketDingin BucketType = "dingin"
)

// Valid reports whether the bucket type is one of the two known buckets
func (b BucketType) Valid() bool {
	return b == BucketPanas || b == BucketDingin
}

// Expense represents a single dated expense tagged to exactly one bucket.
// ID, Name, Type and Date are immutable after creation; only Amount may be
// replaced, through Period.EditExpenseAmount. There is no bucket
// reassignment operation.
type Expense struct {
	ID     uuid.UUID  `json:"id"`
	Name   string     `json:"name"`
	Amount int64      `json:"amount"` // smallest currency unit, always positive
	Type   BucketType `json:"type"`
	Date   time.Time  `json:"date"`
}

// NewExpense validates the inputs and builds an expense with a fresh ID and
// the current timestamp. Returns ErrValidation when the trimmed name is
// empty, the amount is not positive, or the bucket type is unknown.
func NewExpense(name string, amount int64, bucketType BucketType) (Expense, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Expense{}, fmt.Errorf("%w: expense name cannot be empty", ErrValidation)
	}
	if amount <= 0 {
		return Expense{}, fmt.Errorf("%w: expense amount must be positive", ErrValidation)
	}
	if !bucketType.Valid() {
		return Expense{}, fmt.Errorf("%w: bucket type must be panas or dingin", ErrValidation)
	}

	return Expense{
		ID:     uuid.New(),
		Name:   name,
		Amount: amount,
		Type:   bucketType,
		Date:   time.Now(),
	}, nil
}
