package amortization

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customError "github.com/credovia/loan-engine/pkg/errors"
)

func TestFixedInstallment(t *testing.T) {
	// 1200 at 1% per period over 12 periods: the unrounded annuity
	// payment is 106.6185..., which rounds half away from zero to 106.62.
	payment, err := FixedInstallment(
		decimal.NewFromInt(1200),
		decimal.RequireFromString("0.01"),
		12,
	)
	require.NoError(t, err)
	assert.True(t, payment.Equal(decimal.RequireFromString("106.62")),
		"expected 106.62, got %s", payment)
}

func TestFixedInstallment_ZeroRateIsStraightLine(t *testing.T) {
	payment, err := FixedInstallment(decimal.NewFromInt(1200), decimal.Zero, 12)
	require.NoError(t, err)
	assert.True(t, payment.Equal(decimal.NewFromInt(100)))

	// Non-terminating division still rounds to cents
	payment, err = FixedInstallment(decimal.NewFromInt(1000), decimal.Zero, 7)
	require.NoError(t, err)
	assert.True(t, payment.Equal(decimal.RequireFromString("142.86")),
		"expected 142.86, got %s", payment)
}

func TestFixedInstallment_InvalidInputs(t *testing.T) {
	rate := decimal.RequireFromString("0.01")

	tests := []struct {
		name      string
		principal decimal.Decimal
		rate      decimal.Decimal
		count     int
	}{
		{"zero principal", decimal.Zero, rate, 12},
		{"negative principal", decimal.NewFromInt(-100), rate, 12},
		{"zero count", decimal.NewFromInt(1000), rate, 0},
		{"negative count", decimal.NewFromInt(1000), rate, -1},
		{"negative rate", decimal.NewFromInt(1000), decimal.RequireFromString("-0.01"), 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FixedInstallment(tt.principal, tt.rate, tt.count)
			assert.ErrorIs(t, err, customError.ErrInvalidTerms)
		})
	}
}
