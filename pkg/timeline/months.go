// Package timeline reconciles the feed's current-month cursor between two
// mutually exclusive drivers: scroll visibility and explicit user navigation.
package timeline

import (
	"sort"
	"time"
)

// MonthOf truncates t to the first instant of its month in UTC. All cursor
// arithmetic happens on these normalized values.
func MonthOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// monthsBetween returns the signed number of calendar months from a to b.
func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// normalizeMonths dedupes, truncates, and sorts ascending.
func normalizeMonths(months []time.Time) []time.Time {
	seen := make(map[time.Time]bool, len(months))
	out := make([]time.Time, 0, len(months))
	for _, m := range months {
		mo := MonthOf(m)
		if !seen[mo] {
			seen[mo] = true
			out = append(out, mo)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// nearest returns the month in months closest to target by calendar-month
// distance. Exact matches win; ties break toward the earlier month. months
// must be sorted ascending.
func nearest(months []time.Time, target time.Time) (time.Time, bool) {
	if len(months) == 0 {
		return time.Time{}, false
	}
	target = MonthOf(target)
	best := months[0]
	bestDist := abs(monthsBetween(best, target))
	for _, m := range months[1:] {
		d := abs(monthsBetween(m, target))
		if d < bestDist {
			best, bestDist = m, d
		}
	}
	return best, true
}

// clampBefore returns the latest month at or before target, falling back to
// the earliest month when none precedes it.
func clampBefore(months []time.Time, target time.Time) (time.Time, bool) {
	if len(months) == 0 {
		return time.Time{}, false
	}
	target = MonthOf(target)
	for i := len(months) - 1; i >= 0; i-- {
		if !months[i].After(target) {
			return months[i], true
		}
	}
	return months[0], true
}

// clampAfter returns the earliest month at or after target, falling back to
// the latest month when none follows it.
func clampAfter(months []time.Time, target time.Time) (time.Time, bool) {
	if len(months) == 0 {
		return time.Time{}, false
	}
	target = MonthOf(target)
	for _, m := range months {
		if !m.Before(target) {
			return m, true
		}
	}
	return months[len(months)-1], true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
