package schedule

import (
	"time"

	"github.com/HananelSabag/SpendWise-sub004/domain"
)

// maxOccurrences bounds a single enumeration pass so a template with a
// distant end date cannot produce unbounded output.
const maxOccurrences = 1000

// NextOccurrence returns the first non-skipped occurrence of the
// template strictly after the given instant, or the zero time when the
// template has ended or is inactive.
func NextOccurrence(t *domain.RecurringTemplate, after time.Time) time.Time {
	if !knownInterval(t.Interval) {
		return time.Time{}
	}
	cur := firstOccurrence(t)
	for i := 0; i < maxOccurrences; i++ {
		if t.EndDate != nil && cur.After(endOfDay(*t.EndDate)) {
			return time.Time{}
		}
		if cur.After(after) && !t.IsSkipped(cur) {
			return cur
		}
		cur = advance(t, cur)
	}
	return time.Time{}
}

// Occurrences enumerates every non-skipped occurrence of the template
// within [from, until], inclusive on both ends.
func Occurrences(t *domain.RecurringTemplate, from, until time.Time) []time.Time {
	if !knownInterval(t.Interval) {
		return nil
	}
	var out []time.Time
	cur := firstOccurrence(t)
	for i := 0; i < maxOccurrences; i++ {
		if cur.After(until) {
			break
		}
		if t.EndDate != nil && cur.After(endOfDay(*t.EndDate)) {
			break
		}
		if !cur.Before(from) && !t.IsSkipped(cur) {
			out = append(out, cur)
		}
		cur = advance(t, cur)
	}
	return out
}

// firstOccurrence aligns the start date with the template's targeting
// fields: weekly templates snap forward to the configured weekday,
// monthly templates to the configured day of month (clamped to the
// month's length).
func firstOccurrence(t *domain.RecurringTemplate) time.Time {
	start := atMidnight(t.StartDate)
	switch t.Interval {
	case domain.IntervalWeekly:
		if t.DayOfWeek != nil {
			target := time.Weekday(*t.DayOfWeek)
			for start.Weekday() != target {
				start = start.AddDate(0, 0, 1)
			}
		}
	case domain.IntervalMonthly:
		if t.DayOfMonth != nil {
			day := clampDay(start.Year(), start.Month(), *t.DayOfMonth)
			aligned := time.Date(start.Year(), start.Month(), day, 0, 0, 0, 0, start.Location())
			if aligned.Before(start) {
				y, m := nextMonth(start.Year(), start.Month())
				aligned = time.Date(y, m, clampDay(y, m, *t.DayOfMonth), 0, 0, 0, 0, start.Location())
			}
			start = aligned
		}
	}
	return start
}

// advance computes the occurrence following cur. Month-based intervals
// re-clamp the day so a template anchored to the 31st lands on the last
// day of shorter months instead of spilling into the next one.
func advance(t *domain.RecurringTemplate, cur time.Time) time.Time {
	switch t.Interval {
	case domain.IntervalDaily:
		return cur.AddDate(0, 0, 1)
	case domain.IntervalWeekly:
		return cur.AddDate(0, 0, 7)
	case domain.IntervalMonthly:
		return addMonthsClamped(t, cur, 1)
	case domain.IntervalQuarterly:
		return addMonthsClamped(t, cur, 3)
	case domain.IntervalYearly:
		y := cur.Year() + 1
		return time.Date(y, cur.Month(), clampDay(y, cur.Month(), anchorDay(t, cur)), 0, 0, 0, 0, cur.Location())
	default:
		// Unreachable: callers check knownInterval first.
		return cur.AddDate(0, 0, 1)
	}
}

func knownInterval(i domain.IntervalType) bool {
	switch i {
	case domain.IntervalDaily, domain.IntervalWeekly, domain.IntervalMonthly,
		domain.IntervalQuarterly, domain.IntervalYearly:
		return true
	}
	return false
}

func addMonthsClamped(t *domain.RecurringTemplate, cur time.Time, months int) time.Time {
	y, m := cur.Year(), cur.Month()
	for i := 0; i < months; i++ {
		y, m = nextMonth(y, m)
	}
	return time.Date(y, m, clampDay(y, m, anchorDay(t, cur)), 0, 0, 0, 0, cur.Location())
}

// anchorDay is the day a month-based template keeps returning to: the
// configured day of month when set, otherwise the current day.
func anchorDay(t *domain.RecurringTemplate, cur time.Time) int {
	if t.DayOfMonth != nil {
		return *t.DayOfMonth
	}
	return cur.Day()
}

func nextMonth(y int, m time.Month) (int, time.Month) {
	if m == time.December {
		return y + 1, time.January
	}
	return y, m + 1
}

func clampDay(y int, m time.Month, day int) int {
	last := daysIn(y, m)
	if day > last {
		return last
	}
	if day < 1 {
		return 1
	}
	return day
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func atMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
