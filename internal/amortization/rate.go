package amortization

import (
	"github.com/shopspring/decimal"

	"github.com/credovia/loan-engine/internal/domain"
	"github.com/credovia/loan-engine/pkg/errors"
)

var hundred = decimal.NewFromInt(100)

// PeriodicRate converts an annual nominal rate in percent into the
// fractional rate of one installment period. A zero annual rate means
// an interest-free loan.
func PeriodicRate(annualRatePercent decimal.Decimal, cadence domain.Cadence) (decimal.Decimal, error) {
	periods := cadence.PeriodsPerYear()
	if periods == 0 {
		return decimal.Zero, errors.WrapInvalidTerms("unrecognized cadence: " + string(cadence))
	}
	if annualRatePercent.IsNegative() {
		return decimal.Zero, errors.WrapInvalidTerms("annual rate must not be negative")
	}

	return annualRatePercent.Div(hundred).Div(decimal.NewFromInt(int64(periods))), nil
}
