package amortization

import (
	"time"

	"github.com/credovia/loan-engine/internal/domain"
)

// DueDateFor returns the raw due date of installment index (0-based)
// for a schedule starting at start. Weekend adjustment is applied
// separately by the caller.
func DueDateFor(start time.Time, cadence domain.Cadence, index int) time.Time {
	switch cadence {
	case domain.CadenceDaily:
		return start.AddDate(0, 0, index)
	case domain.CadenceWeekly:
		return start.AddDate(0, 0, 7*index)
	case domain.CadenceBiweekly:
		return start.AddDate(0, 0, 14*index)
	default:
		return addMonthsClamped(start, index)
	}
}

// addMonthsClamped adds calendar months keeping the day of month, or
// clamps to the last day when the target month is shorter. Go's
// AddDate normalizes overflow instead (Jan 31 + 1m = Mar 2/3), which
// is the wrong semantics for due dates.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	month += time.Month(months)

	firstOfTarget := time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
	if last := lastDayOfMonth(firstOfTarget); day > last {
		day = last
	}

	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func lastDayOfMonth(firstOfMonth time.Time) int {
	return firstOfMonth.AddDate(0, 1, -1).Day()
}

// AdjustWeekend moves a due date off Saturday/Sunday according to the
// loan's policy. It is a no-op for weekdays and when the loan does not
// skip weekends, so applying it twice equals applying it once.
func AdjustWeekend(date time.Time, skipWeekends bool, policy domain.WeekendAdjustment) time.Time {
	if !skipWeekends {
		return date
	}

	switch date.Weekday() {
	case time.Saturday:
		if policy == domain.AdjustBackward {
			return date.AddDate(0, 0, -1)
		}
		return date.AddDate(0, 0, 2)
	case time.Sunday:
		if policy == domain.AdjustBackward {
			return date.AddDate(0, 0, -2)
		}
		return date.AddDate(0, 0, 1)
	default:
		return date
	}
}
