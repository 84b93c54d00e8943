package checkout

import (
	"errors"
	"time"
)

var (
	// ErrInvalidInstallmentCount is returned for plans with fewer than two
	// installments.
	ErrInvalidInstallmentCount = errors.New("installment count must be at least 2")

	// ErrMissingDueDate is returned when a plan has no first due date.
	ErrMissingDueDate = errors.New("first due date is required")
)

// PlannedInstallment is one entry of a generated installment schedule.
type PlannedInstallment struct {
	Number      int
	AmountCents int64
	DueDate     time.Time
}

// BuildInstallmentPlan splits finalCents into n monthly installments
// starting at firstDue. Each installment gets the floored equal share; the
// last one absorbs the remainder, so the plan always sums to finalCents
// exactly.
func BuildInstallmentPlan(finalCents int64, n int, firstDue time.Time) ([]PlannedInstallment, error) {
	if n < 2 {
		return nil, ErrInvalidInstallmentCount
	}
	if firstDue.IsZero() {
		return nil, ErrMissingDueDate
	}

	base := finalCents / int64(n)
	plan := make([]PlannedInstallment, n)
	for i := 0; i < n; i++ {
		amount := base
		if i == n-1 {
			amount = finalCents - base*int64(n-1)
		}
		plan[i] = PlannedInstallment{
			Number:      i + 1,
			AmountCents: amount,
			DueDate:     firstDue.AddDate(0, i, 0),
		}
	}
	return plan, nil
}
