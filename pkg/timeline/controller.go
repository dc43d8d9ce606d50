package timeline

import (
	"sync"
	"time"
)

// Controller owns the displayed month and the single arbitration flag
// deciding which driver may move it. The flag has exactly four legal
// transitions: explicit navigation (prev/next/direct entry) clears it,
// a jump-to-post request sets it. Nothing else writes it.
//
// Each method reads and writes the flag inside one lock acquisition, so two
// drivers can never interleave a read/write pair.
type Controller struct {
	mu             sync.Mutex
	months         []time.Time // months that actually contain posts, ascending
	current        time.Time
	hasCurrent     bool
	drivenByScroll bool
}

// NewController starts with scroll-driven sync enabled and no months.
func NewController() *Controller {
	return &Controller{drivenByScroll: true}
}

// Reset restores the initial state for a fresh screen: scroll-driven, no
// cursor. The month set is kept; it belongs to the data, not the screen.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drivenByScroll = true
	c.current = time.Time{}
	c.hasCurrent = false
}

// SetMonths replaces the set of months-with-posts. The cursor is clamped to
// the nearest remaining month; with no months it clears.
func (c *Controller) SetMonths(months []time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.months = normalizeMonths(months)
	if len(c.months) == 0 {
		c.current = time.Time{}
		c.hasCurrent = false
		return
	}
	if c.hasCurrent {
		c.current, _ = nearest(c.months, c.current)
	}
}

// ObserveVisible feeds the scroll signal: the most visible post's id and
// inferred date, at most once per visibility-settle event. It moves the
// cursor only while the flag permits scroll-driven sync. Reports whether the
// displayed month changed.
func (c *Controller) ObserveVisible(postID string, date time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.drivenByScroll {
		return false
	}
	return c.adoptLocked(date)
}

// Prev moves the cursor one month back, clamped to the nearest earlier month
// with posts. Explicit navigation: the scroll driver is disarmed first so a
// signal arriving moments later cannot fight the user.
func (c *Controller) Prev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drivenByScroll = false
	if !c.hasCurrent {
		return false
	}
	m, ok := clampBefore(c.months, c.current.AddDate(0, -1, 0))
	return ok && c.setLocked(m)
}

// Next moves the cursor one month forward, clamped to the nearest later
// month with posts.
func (c *Controller) Next() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drivenByScroll = false
	if !c.hasCurrent {
		return false
	}
	m, ok := clampAfter(c.months, c.current.AddDate(0, 1, 0))
	return ok && c.setLocked(m)
}

// JumpToMonth is direct year/month entry: nearest month-with-posts to the
// request, ties toward the earlier month. Explicit navigation, so the scroll
// driver is disarmed.
func (c *Controller) JumpToMonth(year int, month time.Month) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drivenByScroll = false
	target := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	m, ok := nearest(c.months, target)
	return ok && c.setLocked(m)
}

// JumpToPost handles a fresh external jump-to-post request (distinct from
// ambient scrolling): it re-arms scroll-driven sync and adopts the post's
// month.
func (c *Controller) JumpToPost(postID string, date time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drivenByScroll = true
	return c.adoptLocked(date)
}

// Current returns the displayed month. ok is false before any signal or
// navigation has placed the cursor.
func (c *Controller) Current() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.hasCurrent
}

// CanPrev reports whether an earlier month with posts exists.
func (c *Controller) CanPrev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasCurrent && len(c.months) > 0 && c.months[0].Before(c.current)
}

// CanNext reports whether a later month with posts exists.
func (c *Controller) CanNext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasCurrent && len(c.months) > 0 && c.months[len(c.months)-1].After(c.current)
}

// DrivenByScroll exposes the arbitration flag for display logic.
func (c *Controller) DrivenByScroll() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drivenByScroll
}

// Months returns the known months-with-posts, ascending.
func (c *Controller) Months() []time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Time, len(c.months))
	copy(out, c.months)
	return out
}

func (c *Controller) adoptLocked(date time.Time) bool {
	m, ok := nearest(c.months, date)
	if !ok {
		return false
	}
	return c.setLocked(m)
}

func (c *Controller) setLocked(m time.Time) bool {
	if c.hasCurrent && c.current.Equal(m) {
		return false
	}
	c.current = m
	c.hasCurrent = true
	return true
}
