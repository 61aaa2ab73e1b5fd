package amortization

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/credovia/loan-engine/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAdjustWeekend(t *testing.T) {
	saturday := date(2024, time.January, 20)
	sunday := date(2024, time.January, 21)
	wednesday := date(2024, time.January, 17)

	tests := []struct {
		name     string
		input    time.Time
		skip     bool
		policy   domain.WeekendAdjustment
		expected time.Time
	}{
		{"saturday forward moves to monday", saturday, true, domain.AdjustForward, date(2024, time.January, 22)},
		{"saturday backward moves to friday", saturday, true, domain.AdjustBackward, date(2024, time.January, 19)},
		{"sunday forward moves to monday", sunday, true, domain.AdjustForward, date(2024, time.January, 22)},
		{"sunday backward moves to friday", sunday, true, domain.AdjustBackward, date(2024, time.January, 19)},
		{"weekday unchanged", wednesday, true, domain.AdjustForward, wednesday},
		{"weekday unchanged backward", wednesday, true, domain.AdjustBackward, wednesday},
		{"skip disabled leaves saturday", saturday, false, domain.AdjustForward, saturday},
		{"skip disabled leaves sunday", sunday, false, domain.AdjustBackward, sunday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdjustWeekend(tt.input, tt.skip, tt.policy)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAdjustWeekend_Idempotent(t *testing.T) {
	for _, policy := range []domain.WeekendAdjustment{domain.AdjustForward, domain.AdjustBackward} {
		for day := 1; day <= 28; day++ {
			d := date(2024, time.January, day)
			once := AdjustWeekend(d, true, policy)
			twice := AdjustWeekend(once, true, policy)
			assert.Equal(t, once, twice, "adjusting twice must equal adjusting once for %s/%s", d.Format("2006-01-02"), policy)
		}
	}
}

func TestDueDateFor(t *testing.T) {
	start := date(2024, time.January, 15)

	tests := []struct {
		name     string
		cadence  domain.Cadence
		index    int
		expected time.Time
	}{
		{"daily index 0 is start", domain.CadenceDaily, 0, start},
		{"daily adds days", domain.CadenceDaily, 5, date(2024, time.January, 20)},
		{"weekly adds weeks", domain.CadenceWeekly, 3, date(2024, time.February, 5)},
		{"biweekly adds two weeks per index", domain.CadenceBiweekly, 2, date(2024, time.February, 12)},
		{"monthly adds calendar months", domain.CadenceMonthly, 2, date(2024, time.March, 15)},
		{"monthly crosses year boundary", domain.CadenceMonthly, 12, date(2025, time.January, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DueDateFor(start, tt.cadence, tt.index))
		})
	}
}

func TestDueDateFor_MonthlyClampsShortMonths(t *testing.T) {
	jan31 := date(2024, time.January, 31)

	// 2024 is a leap year
	assert.Equal(t, date(2024, time.February, 29), DueDateFor(jan31, domain.CadenceMonthly, 1))
	assert.Equal(t, date(2024, time.March, 31), DueDateFor(jan31, domain.CadenceMonthly, 2))
	assert.Equal(t, date(2024, time.April, 30), DueDateFor(jan31, domain.CadenceMonthly, 3))

	assert.Equal(t, date(2023, time.February, 28), DueDateFor(date(2023, time.January, 31), domain.CadenceMonthly, 1))
}
