package amortization

import (
	"github.com/shopspring/decimal"

	"github.com/credovia/loan-engine/pkg/errors"
)

var one = decimal.NewFromInt(1)

// FixedInstallment computes the constant payment of a French-system
// loan: P * [i(1+i)^n] / [(1+i)^n - 1]. With a zero rate it degrades
// to straight-line principal/count.
//
// The result is rounded to 2 decimal places with decimal.Round, which
// rounds half away from zero. Every currency amount in this package
// uses the same rounding.
func FixedInstallment(principal, periodicRate decimal.Decimal, count int) (decimal.Decimal, error) {
	switch {
	case !principal.IsPositive():
		return decimal.Zero, errors.WrapInvalidTerms("principal must be greater than zero")
	case count < 1:
		return decimal.Zero, errors.WrapInvalidTerms("installment count must be at least 1")
	case periodicRate.IsNegative():
		return decimal.Zero, errors.WrapInvalidTerms("periodic rate must not be negative")
	}

	n := decimal.NewFromInt(int64(count))

	if periodicRate.IsZero() {
		return principal.Div(n).Round(2), nil
	}

	factor := one.Add(periodicRate).Pow(n)
	payment := principal.Mul(periodicRate).Mul(factor).Div(factor.Sub(one))

	return payment.Round(2), nil
}
