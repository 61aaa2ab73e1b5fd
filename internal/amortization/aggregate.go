package amortization

import (
	"github.com/shopspring/decimal"

	"github.com/credovia/loan-engine/internal/domain"
)

// Read-only aggregates over a schedule, ordered by sequence number.
// All of them treat an empty schedule as a valid transient state and
// return neutral zero values instead of failing.

// TotalDue sums the total payment across all rows.
func TotalDue(schedule []*domain.Installment) decimal.Decimal {
	total := decimal.Zero
	for _, inst := range schedule {
		total = total.Add(inst.TotalDue)
	}
	return total
}

// TotalInterest sums the interest portion across all rows.
func TotalInterest(schedule []*domain.Installment) decimal.Decimal {
	total := decimal.Zero
	for _, inst := range schedule {
		total = total.Add(inst.InterestPortion)
	}
	return total
}

// OutstandingBalance returns the opening balance of the first row
// still expecting money, or zero for a fully paid (or empty) schedule.
func OutstandingBalance(schedule []*domain.Installment) decimal.Decimal {
	if next := NextDueInstallment(schedule); next != nil {
		return next.OpeningBalance
	}
	return decimal.Zero
}

// ProgressPercent returns round(100 * paid rows / total rows), or 0
// for an empty schedule.
func ProgressPercent(schedule []*domain.Installment) int {
	if len(schedule) == 0 {
		return 0
	}

	paid := 0
	for _, inst := range schedule {
		if inst.Status == domain.InstallmentPaid {
			paid++
		}
	}

	percent := decimal.NewFromInt(int64(paid * 100)).
		Div(decimal.NewFromInt(int64(len(schedule)))).
		Round(0)
	return int(percent.IntPart())
}

// NextDueInstallment returns the first pending or partial row in
// sequence order, or nil when nothing remains to pay.
func NextDueInstallment(schedule []*domain.Installment) *domain.Installment {
	for _, inst := range schedule {
		if inst.Unresolved() {
			return inst
		}
	}
	return nil
}
