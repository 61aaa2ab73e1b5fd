// Package amortization implements French-system (constant payment)
// amortization schedules: fixed installment computation, per-period
// due dates with weekend adjustment, and read-only aggregates over a
// generated schedule. Everything here is a pure function; persistence
// and clocks belong to the callers.
package amortization

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/credovia/loan-engine/internal/domain"
)

// Generate builds the full installment table for a loan. The whole
// schedule is produced in one call; it is never regenerated or
// extended in place, and it is not persisted here.
//
// Interest is computed on the rolling balance and rounded to cents at
// each row. The final row's principal portion is overridden to the
// remaining balance so the loan closes to exactly zero regardless of
// rounding drift across the earlier rows.
//
// Weekend adjustment is applied per row after the raw cadence date is
// computed. With a daily cadence and weekend skipping enabled, the
// Saturday and Sunday rows therefore land on the same adjusted weekday
// (both on Monday under the forward policy), so consecutive due dates
// are non-decreasing rather than strictly increasing. For weekly and
// longer cadences adjusted dates remain strictly increasing.
func Generate(loanID string, terms domain.LoanTerms) ([]*domain.Installment, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	rate, err := PeriodicRate(terms.AnnualRatePercent, terms.Cadence)
	if err != nil {
		return nil, err
	}

	payment, err := FixedInstallment(terms.Principal, rate, terms.InstallmentCount)
	if err != nil {
		return nil, err
	}

	installments := make([]*domain.Installment, 0, terms.InstallmentCount)
	balance := terms.Principal

	for i := 0; i < terms.InstallmentCount; i++ {
		interest := balance.Mul(rate).Round(2)

		principalPortion := payment.Sub(interest)
		if i == terms.InstallmentCount-1 {
			// Absorb rounding drift: the last row repays whatever is left.
			principalPortion = balance
		}

		totalDue := interest.Add(principalPortion)

		closing := balance.Sub(principalPortion)
		if closing.IsNegative() {
			closing = decimal.Zero
		}

		dueDate := AdjustWeekend(
			DueDateFor(terms.FirstDueDate, terms.Cadence, i),
			terms.SkipWeekends,
			terms.WeekendAdjustment,
		)

		installments = append(installments, &domain.Installment{
			ID:               uuid.New(),
			LoanID:           loanID,
			SequenceNumber:   i + 1,
			DueDate:          dueDate,
			OpeningBalance:   balance.Round(2),
			InterestPortion:  interest,
			PrincipalPortion: principalPortion.Round(2),
			TotalDue:         totalDue.Round(2),
			ClosingBalance:   closing.Round(2),
			Status:           domain.InstallmentPending,
			AmountPaid:       decimal.Zero,
		})

		balance = closing
	}

	return installments, nil
}
