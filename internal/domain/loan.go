package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/credovia/loan-engine/pkg/errors"
)

const (
	LoanStatusActive = "active"
	LoanStatusPaid   = "paid"
	LoanStatusClosed = "closed"
)

// Cadence is the installment frequency of a loan.
type Cadence string

const (
	CadenceDaily    Cadence = "daily"
	CadenceWeekly   Cadence = "weekly"
	CadenceBiweekly Cadence = "biweekly"
	CadenceMonthly  Cadence = "monthly"
)

// PeriodsPerYear returns how many installment periods fit in a year
// for this cadence, or 0 for an unknown cadence.
func (c Cadence) PeriodsPerYear() int {
	switch c {
	case CadenceDaily:
		return 365
	case CadenceWeekly:
		return 52
	case CadenceBiweekly:
		return 26
	case CadenceMonthly:
		return 12
	default:
		return 0
	}
}

func (c Cadence) Valid() bool {
	return c.PeriodsPerYear() > 0
}

// WeekendAdjustment says which way a weekend due date moves when the
// loan skips weekends.
type WeekendAdjustment string

const (
	AdjustForward  WeekendAdjustment = "forward"
	AdjustBackward WeekendAdjustment = "backward"
)

func (a WeekendAdjustment) Valid() bool {
	return a == AdjustForward || a == AdjustBackward
}

// LoanTerms is everything schedule generation needs. The caller
// assembles it explicitly (request values plus configured defaults)
// so generation never reads ambient state.
type LoanTerms struct {
	Principal         decimal.Decimal
	AnnualRatePercent decimal.Decimal
	InstallmentCount  int
	Cadence           Cadence
	FirstDueDate      time.Time
	SkipWeekends      bool
	WeekendAdjustment WeekendAdjustment
}

// Validate rejects terms that cannot produce a schedule.
func (t LoanTerms) Validate() error {
	switch {
	case !t.Principal.IsPositive():
		return errors.WrapInvalidTerms("principal must be greater than zero")
	case t.InstallmentCount < 1:
		return errors.WrapInvalidTerms("installment count must be at least 1")
	case t.AnnualRatePercent.IsNegative():
		return errors.WrapInvalidTerms("annual rate must not be negative")
	case !t.Cadence.Valid():
		return errors.WrapInvalidTerms("unrecognized cadence: " + string(t.Cadence))
	case t.SkipWeekends && !t.WeekendAdjustment.Valid():
		return errors.WrapInvalidTerms("unrecognized weekend adjustment: " + string(t.WeekendAdjustment))
	}
	return nil
}

// Loan represents a loan entity
type Loan struct {
	ID                uuid.UUID         `json:"id" db:"id"`
	LoanID            string            `json:"loan_id" db:"loan_id"`
	Principal         decimal.Decimal   `json:"principal" db:"principal"`
	AnnualRatePercent decimal.Decimal   `json:"annual_rate_percent" db:"annual_rate_percent"`
	InstallmentCount  int               `json:"installment_count" db:"installment_count"`
	Cadence           Cadence           `json:"cadence" db:"cadence"`
	FirstDueDate      time.Time         `json:"first_due_date" db:"first_due_date"`
	SkipWeekends      bool              `json:"skip_weekends" db:"skip_weekends"`
	WeekendAdjustment WeekendAdjustment `json:"weekend_adjustment" db:"weekend_adjustment"`
	FixedInstallment  decimal.Decimal   `json:"fixed_installment" db:"fixed_installment"`
	Status            string            `json:"status" db:"status"`
	CreatedAt         time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" db:"updated_at"`
}

// Terms re-assembles the immutable generation inputs stored on the loan.
func (l *Loan) Terms() LoanTerms {
	return LoanTerms{
		Principal:         l.Principal,
		AnnualRatePercent: l.AnnualRatePercent,
		InstallmentCount:  l.InstallmentCount,
		Cadence:           l.Cadence,
		FirstDueDate:      l.FirstDueDate,
		SkipWeekends:      l.SkipWeekends,
		WeekendAdjustment: l.WeekendAdjustment,
	}
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	LoanID            string            `json:"loan_id" validate:"required"`
	Principal         decimal.Decimal   `json:"principal" validate:"required"`
	AnnualRatePercent decimal.Decimal   `json:"annual_rate_percent"`
	InstallmentCount  int               `json:"installment_count" validate:"required,gt=0"`
	Cadence           Cadence           `json:"cadence" validate:"required,oneof=daily weekly biweekly monthly"`
	FirstDueDate      string            `json:"first_due_date" validate:"required,datetime=2006-01-02"`
	SkipWeekends      *bool             `json:"skip_weekends,omitempty"`
	WeekendAdjustment WeekendAdjustment `json:"weekend_adjustment,omitempty" validate:"omitempty,oneof=forward backward"`
}

type CreateLoanResponse struct {
	Loan     *Loan          `json:"loan"`
	Schedule []*Installment `json:"schedule"`
}

type ScheduleResponse struct {
	LoanID   string         `json:"loan_id"`
	Schedule []*Installment `json:"schedule"`
}

type OutstandingResponse struct {
	LoanID      string          `json:"loan_id"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

type ProgressResponse struct {
	LoanID          string          `json:"loan_id"`
	ProgressPercent int             `json:"progress_percent"`
	TotalDue        decimal.Decimal `json:"total_due"`
	TotalInterest   decimal.Decimal `json:"total_interest"`
	NextDue         *Installment    `json:"next_due,omitempty"`
}
