package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment methods accepted at the PDV. "multiple" is the sentinel label a
// sale carries when it was settled with more than one tender; it is never a
// tender method itself.
const (
	PaymentCash     = "cash"
	PaymentCredit   = "credit"
	PaymentDebit    = "debit"
	PaymentPix      = "pix"
	PaymentMultiple = "multiple"
)

// Sale kinds.
const (
	SaleTypeCash        = "cash"
	SaleTypeInstallment = "installment"
)

// Sale statuses.
const (
	SaleStatusCompleted = "completed"
	SaleStatusPending   = "pending"
)

// Sale is the settled sale header. SaleNumber is server-assigned from a
// per-database sequence; the row is never mutated by the checkout flow after
// settlement (installment follow-up flips Status through its own service).
type Sale struct {
	ID            uuid.UUID `json:"id" db:"id"`
	StoreID       uuid.UUID `json:"store_id" db:"store_id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	SaleNumber    int64     `json:"sale_number" db:"sale_number"`
	TotalCents    int64     `json:"total_cents" db:"total_cents"`
	DiscountCents int64     `json:"discount_cents" db:"discount_cents"`
	FinalCents    int64     `json:"final_cents" db:"final_cents"`
	PaymentMethod string    `json:"payment_method" db:"payment_method"`
	SaleType      string    `json:"sale_type" db:"sale_type"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// SaleItem is one cart line frozen at settlement time.
type SaleItem struct {
	ID             uuid.UUID `json:"id" db:"id"`
	SaleID         uuid.UUID `json:"sale_id" db:"sale_id"`
	ProductID      uuid.UUID `json:"product_id" db:"product_id"`
	Quantity       int       `json:"quantity" db:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents" db:"unit_price_cents"`
	SubtotalCents  int64     `json:"subtotal_cents" db:"subtotal_cents"`
}

// SalePayment is one tender row; written only when a sale used more than one
// tender (payment_method = "multiple" on the header).
type SalePayment struct {
	ID            uuid.UUID `json:"id" db:"id"`
	SaleID        uuid.UUID `json:"sale_id" db:"sale_id"`
	PaymentMethod string    `json:"payment_method" db:"payment_method"`
	AmountCents   int64     `json:"amount_cents" db:"amount_cents"`
}
