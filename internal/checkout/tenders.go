package checkout

import (
	"errors"

	"mercadopos/internal/models"
)

var (
	// ErrInvalidTenderAmount is returned for tenders with amount <= 0.
	ErrInvalidTenderAmount = errors.New("tender amount must be positive")

	// ErrUnknownPaymentMethod is returned for tenders whose method is not
	// accepted at the PDV.
	ErrUnknownPaymentMethod = errors.New("unknown payment method")

	// ErrTenderImbalance is returned when settlement is attempted while the
	// tenders do not cover the sale total exactly.
	ErrTenderImbalance = errors.New("tenders do not balance sale total")
)

// Tender is one payment instrument contributing to a sale.
type Tender struct {
	Method      string `json:"method"`
	AmountCents int64  `json:"amount_cents"`
}

// ValidMethod reports whether m is a method a tender may carry. The
// "multiple" sentinel is a header label, not a tender method.
func ValidMethod(m string) bool {
	switch m {
	case models.PaymentCash, models.PaymentCredit, models.PaymentDebit, models.PaymentPix:
		return true
	}
	return false
}

// TenderList accumulates tenders against a required total. Amounts are
// integer cents, so the balance check is exact equality; there is no
// rounding epsilon.
type TenderList struct {
	tenders []Tender
}

// NewTenderList returns an empty tender list.
func NewTenderList() *TenderList {
	return &TenderList{}
}

// Add appends a tender after validating method and amount.
func (t *TenderList) Add(method string, amountCents int64) error {
	if !ValidMethod(method) {
		return ErrUnknownPaymentMethod
	}
	if amountCents <= 0 {
		return ErrInvalidTenderAmount
	}
	t.tenders = append(t.tenders, Tender{Method: method, AmountCents: amountCents})
	return nil
}

// Remove drops the tender at index i; out-of-range indexes are ignored.
func (t *TenderList) Remove(i int) {
	if i < 0 || i >= len(t.tenders) {
		return
	}
	t.tenders = append(t.tenders[:i], t.tenders[i+1:]...)
}

// Count returns the number of tenders.
func (t *TenderList) Count() int {
	return len(t.tenders)
}

// List returns a copy of the tenders in insertion order.
func (t *TenderList) List() []Tender {
	out := make([]Tender, len(t.tenders))
	copy(out, t.tenders)
	return out
}

// TotalCents is the sum of tender amounts.
func (t *TenderList) TotalCents() int64 {
	var sum int64
	for _, td := range t.tenders {
		sum += td.AmountCents
	}
	return sum
}

// RemainingCents is the sale total minus what has been tendered so far.
func (t *TenderList) RemainingCents(totalCents int64) int64 {
	return totalCents - t.TotalCents()
}

// CanSettle reports whether the tenders cover the total exactly and at
// least one tender exists.
func (t *TenderList) CanSettle(totalCents int64) bool {
	return len(t.tenders) > 0 && t.RemainingCents(totalCents) == 0
}

// Label derives the sale header's payment-method label: the method itself
// for a single tender, the "multiple" sentinel otherwise.
func (t *TenderList) Label() string {
	if len(t.tenders) == 1 {
		return t.tenders[0].Method
	}
	return models.PaymentMultiple
}
