package printers

import (
	"testing"
	"time"
)

func TestDaysIn(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2026, time.January, 31},
		{2026, time.February, 28},
		{2028, time.February, 29},
		{2026, time.April, 30},
		{2026, time.December, 31},
	}
	for _, tc := range tests {
		then := time.Date(tc.year, tc.month, 1, 0, 0, 0, 0, time.UTC)
		if got := DaysIn(then); got != tc.want {
			t.Fatalf("DaysIn(%s %d) = %d, want %d", tc.month, tc.year, got, tc.want)
		}
	}
}

func TestStartDay(t *testing.T) {
	// September 2026 starts on a Tuesday.
	then := time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)
	if got := StartDay(then); got != time.Tuesday {
		t.Fatalf("StartDay = %v, want Tuesday", got)
	}
}

func TestNextMonthRollsTheYear(t *testing.T) {
	then := time.Date(2026, time.December, 1, 1, 0, 0, 0, time.UTC)
	next := NextMonth(then)
	if next.Year() != 2027 || next.Month() != time.January {
		t.Fatalf("NextMonth = %v", next)
	}
}
