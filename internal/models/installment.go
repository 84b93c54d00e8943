package models

import (
	"time"

	"github.com/google/uuid"
)

// Installment statuses.
const (
	InstallmentPending = "pending"
	InstallmentPaid    = "paid"
)

// Installment is one scheduled payment of a deferred sale. Amounts are
// generated so that the sum over a sale equals the sale's final amount
// exactly; the last installment absorbs the division remainder.
type Installment struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	SaleID            uuid.UUID  `json:"sale_id" db:"sale_id"`
	InstallmentNumber int        `json:"installment_number" db:"installment_number"`
	AmountCents       int64      `json:"amount_cents" db:"amount_cents"`
	DueDate           time.Time  `json:"due_date" db:"due_date"`
	Status            string     `json:"status" db:"status"`
	PaidDate          *time.Time `json:"paid_date" db:"paid_date"`
}
