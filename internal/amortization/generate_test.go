package amortization

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credovia/loan-engine/internal/domain"
	customError "github.com/credovia/loan-engine/pkg/errors"
)

func monthlyTerms() domain.LoanTerms {
	return domain.LoanTerms{
		Principal:         decimal.NewFromInt(1200),
		AnnualRatePercent: decimal.NewFromInt(12),
		InstallmentCount:  12,
		Cadence:           domain.CadenceMonthly,
		FirstDueDate:      date(2024, time.January, 15),
	}
}

func TestGenerate_MonthlyScenario(t *testing.T) {
	schedule, err := Generate("LOAN-1", monthlyTerms())
	require.NoError(t, err)
	require.Len(t, schedule, 12)

	first := schedule[0]
	assert.Equal(t, 1, first.SequenceNumber)
	assert.Equal(t, date(2024, time.January, 15), first.DueDate)
	assert.True(t, first.OpeningBalance.Equal(decimal.NewFromInt(1200)))
	assert.True(t, first.InterestPortion.Equal(decimal.RequireFromString("12.00")),
		"interest %s", first.InterestPortion)
	assert.True(t, first.PrincipalPortion.Equal(decimal.RequireFromString("94.62")),
		"principal %s", first.PrincipalPortion)
	assert.True(t, first.TotalDue.Equal(decimal.RequireFromString("106.62")))
	assert.True(t, first.ClosingBalance.Equal(decimal.RequireFromString("1105.38")),
		"closing %s", first.ClosingBalance)

	last := schedule[len(schedule)-1]
	assert.Equal(t, 12, last.SequenceNumber)
	assert.True(t, last.ClosingBalance.IsZero(), "last closing balance must be exactly zero, got %s", last.ClosingBalance)
	assert.True(t, last.PrincipalPortion.Equal(last.OpeningBalance))

	for _, inst := range schedule {
		assert.Equal(t, "LOAN-1", inst.LoanID)
		assert.Equal(t, domain.InstallmentPending, inst.Status)
		assert.True(t, inst.AmountPaid.IsZero())
		assert.True(t, inst.TotalDue.Equal(inst.InterestPortion.Add(inst.PrincipalPortion)),
			"row %d: total due must equal interest plus principal", inst.SequenceNumber)
	}
}

func TestGenerate_BalanceContinuity(t *testing.T) {
	schedule, err := Generate("LOAN-1", monthlyTerms())
	require.NoError(t, err)

	for i := 0; i < len(schedule)-1; i++ {
		assert.True(t, schedule[i].ClosingBalance.Equal(schedule[i+1].OpeningBalance),
			"row %d closing != row %d opening", i+1, i+2)
	}
}

func TestGenerate_PrincipalConservation(t *testing.T) {
	terms := monthlyTerms()
	schedule, err := Generate("LOAN-1", terms)
	require.NoError(t, err)

	total := decimal.Zero
	for _, inst := range schedule {
		total = total.Add(inst.PrincipalPortion)
	}
	assert.True(t, total.Equal(terms.Principal),
		"principal portions sum to %s, want %s", total, terms.Principal)
}

func TestGenerate_MonotonicDueDates(t *testing.T) {
	for _, cadence := range []domain.Cadence{
		domain.CadenceWeekly, domain.CadenceBiweekly, domain.CadenceMonthly,
	} {
		terms := monthlyTerms()
		terms.Cadence = cadence
		terms.SkipWeekends = true
		terms.WeekendAdjustment = domain.AdjustForward

		schedule, err := Generate("LOAN-1", terms)
		require.NoError(t, err)

		for i := 1; i < len(schedule); i++ {
			assert.True(t, schedule[i].DueDate.After(schedule[i-1].DueDate),
				"%s: due dates must strictly increase", cadence)
		}
	}
}

func TestGenerate_DailyWeekendCollapse(t *testing.T) {
	terms := domain.LoanTerms{
		Principal:         decimal.NewFromInt(700),
		AnnualRatePercent: decimal.NewFromInt(12),
		InstallmentCount:  5,
		Cadence:           domain.CadenceDaily,
		// 2024-06-14 is a Friday, so rows 2 and 3 fall on the weekend
		FirstDueDate:      date(2024, time.June, 14),
		SkipWeekends:      true,
		WeekendAdjustment: domain.AdjustForward,
	}

	schedule, err := Generate("LOAN-1", terms)
	require.NoError(t, err)
	require.Len(t, schedule, 5)

	monday := date(2024, time.June, 17)
	assert.Equal(t, date(2024, time.June, 14), schedule[0].DueDate)
	assert.Equal(t, monday, schedule[1].DueDate, "Saturday row lands on Monday")
	assert.Equal(t, monday, schedule[2].DueDate, "Sunday row lands on the same Monday")
	assert.Equal(t, monday, schedule[3].DueDate)
	assert.Equal(t, date(2024, time.June, 18), schedule[4].DueDate)

	// Duplicate dates are allowed; going backwards is not.
	for i := 1; i < len(schedule); i++ {
		assert.False(t, schedule[i].DueDate.Before(schedule[i-1].DueDate),
			"row %d due date moves backwards", i+1)
	}
}

func TestGenerate_WeekendAdjustedDueDates(t *testing.T) {
	terms := monthlyTerms()
	// 2024-06-15 is a Saturday
	terms.FirstDueDate = date(2024, time.June, 15)
	terms.SkipWeekends = true
	terms.WeekendAdjustment = domain.AdjustForward

	schedule, err := Generate("LOAN-1", terms)
	require.NoError(t, err)

	assert.Equal(t, date(2024, time.June, 17), schedule[0].DueDate)
	// 2024-09-15 is a Sunday
	assert.Equal(t, date(2024, time.September, 16), schedule[3].DueDate)
	// 2024-07-15 is a Monday, untouched
	assert.Equal(t, date(2024, time.July, 15), schedule[1].DueDate)
}

func TestGenerate_ZeroRateStraightLine(t *testing.T) {
	terms := domain.LoanTerms{
		Principal:        decimal.NewFromInt(1000),
		InstallmentCount: 7,
		Cadence:          domain.CadenceWeekly,
		FirstDueDate:     date(2024, time.March, 4),
	}

	schedule, err := Generate("LOAN-1", terms)
	require.NoError(t, err)
	require.Len(t, schedule, 7)

	even := decimal.RequireFromString("142.86")
	for i, inst := range schedule {
		assert.True(t, inst.InterestPortion.IsZero(), "row %d: interest-free loan has no interest", i+1)
		if i < len(schedule)-1 {
			assert.True(t, inst.PrincipalPortion.Equal(even),
				"row %d principal %s", i+1, inst.PrincipalPortion)
		}
	}

	// 1000 - 6*142.86: the last row absorbs the rounding remainder
	last := schedule[6]
	assert.True(t, last.PrincipalPortion.Equal(decimal.RequireFromString("142.84")),
		"last principal %s", last.PrincipalPortion)
	assert.True(t, last.ClosingBalance.IsZero())
}

func TestGenerate_SingleInstallment(t *testing.T) {
	terms := domain.LoanTerms{
		Principal:         decimal.NewFromInt(500),
		AnnualRatePercent: decimal.NewFromInt(10),
		InstallmentCount:  1,
		Cadence:           domain.CadenceMonthly,
		FirstDueDate:      date(2024, time.February, 1),
	}

	schedule, err := Generate("LOAN-1", terms)
	require.NoError(t, err)
	require.Len(t, schedule, 1)

	only := schedule[0]
	assert.True(t, only.PrincipalPortion.Equal(decimal.NewFromInt(500)),
		"single installment repays the full principal, got %s", only.PrincipalPortion)
	assert.True(t, only.ClosingBalance.IsZero())
	assert.True(t, only.TotalDue.Equal(only.InterestPortion.Add(only.PrincipalPortion)))
}

func TestGenerate_InvalidTerms(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.LoanTerms)
	}{
		{"zero principal", func(t *domain.LoanTerms) { t.Principal = decimal.Zero }},
		{"negative principal", func(t *domain.LoanTerms) { t.Principal = decimal.NewFromInt(-10) }},
		{"zero count", func(t *domain.LoanTerms) { t.InstallmentCount = 0 }},
		{"negative rate", func(t *domain.LoanTerms) { t.AnnualRatePercent = decimal.NewFromInt(-1) }},
		{"unknown cadence", func(t *domain.LoanTerms) { t.Cadence = "quarterly" }},
		{"missing adjustment with skip", func(t *domain.LoanTerms) { t.SkipWeekends = true; t.WeekendAdjustment = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := monthlyTerms()
			tt.mutate(&terms)

			schedule, err := Generate("LOAN-1", terms)
			assert.ErrorIs(t, err, customError.ErrInvalidTerms)
			assert.Nil(t, schedule, "no partial schedule on invalid terms")
		})
	}
}
