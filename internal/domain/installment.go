package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/credovia/loan-engine/pkg/errors"
)

// InstallmentStatus is a closed enumeration; transitions go through
// NextStatus, never ad-hoc field writes.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPartial InstallmentStatus = "partial"
	InstallmentPaid    InstallmentStatus = "paid"
	InstallmentOverdue InstallmentStatus = "overdue"
)

// StatusEvent is something that happens to an installment.
type StatusEvent string

const (
	EventFullPayment    StatusEvent = "full_payment"
	EventPartialPayment StatusEvent = "partial_payment"
	EventMarkOverdue    StatusEvent = "mark_overdue"
)

// NextStatus applies an event to a status. Paid is terminal: any
// further event is rejected, so corrections need an explicit
// out-of-band workflow rather than a silent overwrite.
func NextStatus(current InstallmentStatus, event StatusEvent) (InstallmentStatus, error) {
	switch current {
	case InstallmentPending, InstallmentPartial, InstallmentOverdue:
		switch event {
		case EventFullPayment:
			return InstallmentPaid, nil
		case EventPartialPayment:
			return InstallmentPartial, nil
		case EventMarkOverdue:
			return InstallmentOverdue, nil
		}
	case InstallmentPaid:
		return current, errors.WrapInvalidTransition(string(current), string(event))
	}
	return current, errors.WrapInvalidTransition(string(current), string(event))
}

// Installment is one row of an amortization schedule. Dates and the
// interest/principal/balance split are fixed at generation time; only
// Status and AmountPaid change afterwards.
type Installment struct {
	ID               uuid.UUID         `json:"id" db:"id"`
	LoanID           string            `json:"loan_id" db:"loan_id"`
	SequenceNumber   int               `json:"sequence_number" db:"sequence_number"`
	DueDate          time.Time         `json:"due_date" db:"due_date"`
	OpeningBalance   decimal.Decimal   `json:"opening_balance" db:"opening_balance"`
	InterestPortion  decimal.Decimal   `json:"interest_portion" db:"interest_portion"`
	PrincipalPortion decimal.Decimal   `json:"principal_portion" db:"principal_portion"`
	TotalDue         decimal.Decimal   `json:"total_due" db:"total_due"`
	ClosingBalance   decimal.Decimal   `json:"closing_balance" db:"closing_balance"`
	Status           InstallmentStatus `json:"status" db:"status"`
	AmountPaid       decimal.Decimal   `json:"amount_paid" db:"amount_paid"`
	CreatedAt        time.Time         `json:"created_at" db:"created_at"`
}

// Outstanding is how much of this installment remains unpaid.
func (i *Installment) Outstanding() decimal.Decimal {
	remaining := i.TotalDue.Sub(i.AmountPaid)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// Unresolved reports whether the row still expects money.
func (i *Installment) Unresolved() bool {
	return i.Status == InstallmentPending || i.Status == InstallmentPartial
}
