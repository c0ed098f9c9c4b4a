package domain

import (
	"errors"
	"time"
)

// Common validation errors for Invoice
var (
	ErrEmptyInvoiceCompCode = errors.New("invoice company code cannot be empty")
	ErrInvalidInvoiceAmount = errors.New("invoice amount must be positive")
)

// Invoice represents a single bill issued against a company.
// ID and AddDate are assigned by the store on creation. PaidDate is
// non-nil exactly when Paid is true; the pairing is maintained solely
// through ApplyPayment.
type Invoice struct {
	ID       int64      `json:"id"`
	CompCode string     `json:"comp_code"`
	Amt      float64    `json:"amt"`
	Paid     bool       `json:"paid"`
	AddDate  time.Time  `json:"add_date"`
	PaidDate *time.Time `json:"paid_date"`

	// Company is populated only by the joined single-invoice read.
	Company *Company `json:"company,omitempty"`
}

// NewInvoice creates a new unpaid Invoice for the given company code
// and amount. The store assigns ID and AddDate on insert.
// Returns an error if validation fails.
func NewInvoice(compCode string, amt float64) (*Invoice, error) {
	invoice := &Invoice{
		CompCode: compCode,
		Amt:      amt,
	}

	if err := invoice.Validate(); err != nil {
		return nil, err
	}

	return invoice, nil
}

// Validate checks if the Invoice has valid data.
// Returns an error if any field fails validation.
func (i *Invoice) Validate() error {
	if i.CompCode == "" {
		return ErrEmptyInvoiceCompCode
	}

	if i.Amt <= 0 {
		return ErrInvalidInvoiceAmount
	}

	return nil
}

// ApplyPayment applies an update's amount and paid flag to the invoice,
// deriving PaidDate from the transition between the stored and requested
// paid state. A nil amt or paid leaves the corresponding stored value
// unchanged.
//
// Transitions: unpaid to paid stamps PaidDate with now, paid to unpaid
// clears it, and a same-state update leaves the date untouched.
func (i *Invoice) ApplyPayment(amt *float64, paid *bool, now time.Time) {
	if amt != nil {
		i.Amt = *amt
	}

	if paid == nil {
		return
	}

	switch {
	case *paid && !i.Paid:
		paidAt := now.UTC()
		i.PaidDate = &paidAt
	case !*paid:
		i.PaidDate = nil
	}

	i.Paid = *paid
}
