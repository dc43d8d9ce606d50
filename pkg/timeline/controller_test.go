package timeline

import (
	"testing"
	"time"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestNearestPrefersExactThenEarlier(t *testing.T) {
	months := []time.Time{month(2026, 1), month(2026, 3), month(2026, 7)}

	tests := []struct {
		name   string
		target time.Time
		want   time.Time
	}{{
		name:   "exact match wins",
		target: month(2026, 3),
		want:   month(2026, 3),
	}, {
		name:   "closest by month distance",
		target: month(2026, 6),
		want:   month(2026, 7),
	}, {
		name:   "tie breaks toward the earlier month",
		target: month(2026, 2), // one month from both Jan and Mar
		want:   month(2026, 1),
	}, {
		name:   "tie again at the upper gap",
		target: month(2026, 5), // two months from both Mar and Jul
		want:   month(2026, 3),
	}, {
		name:   "before the range clamps to the first",
		target: month(2020, 6),
		want:   month(2026, 1),
	}, {
		name:   "after the range clamps to the last",
		target: month(2030, 6),
		want:   month(2026, 7),
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := nearest(months, tc.target)
			if !ok {
				t.Fatal("nearest returned not ok")
			}
			if !got.Equal(tc.want) {
				t.Fatalf("nearest(%v) = %v, want %v", tc.target, got, tc.want)
			}
		})
	}
}

func TestNormalizeMonthsDedupesAndSorts(t *testing.T) {
	got := normalizeMonths([]time.Time{
		day(2026, time.March, 14),
		day(2026, time.January, 2),
		day(2026, time.March, 30),
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 months, got %d", len(got))
	}
	if !got[0].Equal(month(2026, 1)) || !got[1].Equal(month(2026, 3)) {
		t.Fatalf("unexpected months: %v", got)
	}
}

func TestScrollDrivesCursorUntilExplicitNavigation(t *testing.T) {
	c := NewController()
	c.SetMonths([]time.Time{month(2026, 1), month(2026, 3), month(2026, 7)})

	if !c.DrivenByScroll() {
		t.Fatal("controller must start scroll-driven")
	}

	if !c.ObserveVisible("p1", day(2026, time.March, 5)) {
		t.Fatal("first scroll signal should move the cursor")
	}
	if cur, _ := c.Current(); !cur.Equal(month(2026, 3)) {
		t.Fatalf("cursor = %v, want March", cur)
	}

	// Explicit navigation disarms the scroll driver before moving.
	if !c.Prev() {
		t.Fatal("Prev should move off March")
	}
	if c.DrivenByScroll() {
		t.Fatal("Prev must disarm scroll-driven sync")
	}
	if cur, _ := c.Current(); !cur.Equal(month(2026, 1)) {
		t.Fatalf("cursor = %v, want January", cur)
	}

	// A late scroll signal must not fight the user's click.
	if c.ObserveVisible("p2", day(2026, time.July, 1)) {
		t.Fatal("scroll signal moved the cursor while disarmed")
	}
	if cur, _ := c.Current(); !cur.Equal(month(2026, 1)) {
		t.Fatalf("cursor drifted to %v", cur)
	}
}

func TestJumpToPostRearmsScrollDriver(t *testing.T) {
	c := NewController()
	c.SetMonths([]time.Time{month(2026, 1), month(2026, 3)})

	c.JumpToMonth(2026, time.January)
	if c.DrivenByScroll() {
		t.Fatal("JumpToMonth must disarm scroll-driven sync")
	}

	if !c.JumpToPost("p7", day(2026, time.March, 9)) {
		t.Fatal("JumpToPost should adopt the post's month")
	}
	if !c.DrivenByScroll() {
		t.Fatal("JumpToPost must re-arm scroll-driven sync")
	}
	if cur, _ := c.Current(); !cur.Equal(month(2026, 3)) {
		t.Fatalf("cursor = %v, want March", cur)
	}
}

func TestPrevNextClampToMonthsWithPosts(t *testing.T) {
	c := NewController()
	c.SetMonths([]time.Time{month(2026, 1), month(2026, 4), month(2026, 8)})
	c.JumpToMonth(2026, time.April)

	// Prev from April targets March; the latest month at or before March
	// is January.
	if !c.Prev() {
		t.Fatal("Prev should move")
	}
	if cur, _ := c.Current(); !cur.Equal(month(2026, 1)) {
		t.Fatalf("cursor = %v, want January", cur)
	}

	// Prev at the start stays put.
	if c.Prev() {
		t.Fatal("Prev at the first month should not report a change")
	}
	if c.CanPrev() {
		t.Fatal("CanPrev at the first month")
	}

	// Next from January targets February; earliest at or after is April.
	if !c.Next() {
		t.Fatal("Next should move")
	}
	if cur, _ := c.Current(); !cur.Equal(month(2026, 4)) {
		t.Fatalf("cursor = %v, want April", cur)
	}

	c.JumpToMonth(2026, time.August)
	if c.Next() {
		t.Fatal("Next at the last month should not report a change")
	}
	if c.CanNext() {
		t.Fatal("CanNext at the last month")
	}
}

func TestSetMonthsClampsCursor(t *testing.T) {
	c := NewController()
	c.SetMonths([]time.Time{month(2026, 1), month(2026, 3)})
	c.JumpToMonth(2026, time.March)

	// The cursor's month lost its last post.
	c.SetMonths([]time.Time{month(2026, 1)})
	if cur, _ := c.Current(); !cur.Equal(month(2026, 1)) {
		t.Fatalf("cursor = %v, want January after clamp", cur)
	}

	c.SetMonths(nil)
	if _, ok := c.Current(); ok {
		t.Fatal("cursor should clear when no months remain")
	}
}

func TestResetRestoresScrollDrivingButKeepsMonths(t *testing.T) {
	c := NewController()
	c.SetMonths([]time.Time{month(2026, 1)})
	c.JumpToMonth(2026, time.January)

	c.Reset()
	if !c.DrivenByScroll() {
		t.Fatal("Reset must re-arm scroll-driven sync")
	}
	if _, ok := c.Current(); ok {
		t.Fatal("Reset must clear the cursor")
	}
	if len(c.Months()) != 1 {
		t.Fatal("Reset must keep the month set")
	}
}

func TestObserveVisibleBeforeAnyMonths(t *testing.T) {
	c := NewController()
	if c.ObserveVisible("p1", day(2026, time.May, 1)) {
		t.Fatal("no months to adopt")
	}
	if c.Prev() || c.Next() {
		t.Fatal("navigation with no cursor must be a no-op")
	}
}
