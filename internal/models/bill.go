package models

import (
	"time"

	"github.com/google/uuid"
)

// Bill kinds.
const (
	BillPayable    = "payable"
	BillReceivable = "receivable"
)

// Bill statuses.
const (
	BillPending = "pending"
	BillPaid    = "paid"
)

// Bill is an account payable or receivable tracked by the back office.
type Bill struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	StoreID     uuid.UUID  `json:"store_id" db:"store_id"`
	Description string     `json:"description" db:"description"`
	Kind        string     `json:"kind" db:"kind"`
	AmountCents int64      `json:"amount_cents" db:"amount_cents"`
	DueDate     time.Time  `json:"due_date" db:"due_date"`
	Status      string     `json:"status" db:"status"`
	PaidDate    *time.Time `json:"paid_date" db:"paid_date"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
