package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/sphere/pkg/feed"
)

const width = len("11 12 13 14 15 16 17") // an example week

// Calendar renders one month of the feed as a day grid, bolding the days
// that have posts.
func (pp *PrettyPrint) Calendar(on time.Time, posts ...feed.Post) {
	then := time.Date(on.Year(), on.Month(), 1, 1, 0, 0, 0, time.UTC)
	pp.PrintMonth(then, posts...)
}

// CalendarYear renders twelve month grids for the feed.
func (pp *PrettyPrint) CalendarYear(year int, posts ...feed.Post) {
	then := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		pp.PrintMonth(then, posts...)
		then = NextMonth(then)
	}
}

func (pp *PrettyPrint) PrintMonth(then time.Time, posts ...feed.Post) {
	days := DaysIn(then)

	count := make([]int, days)

	for _, p := range posts {
		if p.CreatedAt == nil {
			continue
		}
		at := p.CreatedAt.UTC()
		if at.Year() == then.Year() && at.Month() == then.Month() {
			count[at.Day()-1]++
		}
	}

	pp.PrintMonthCount(then, count)
}

func (pp *PrettyPrint) PrintMonthCount(then time.Time, count []int) {
	d := StartDay(then)

	tf := color.New(color.FgWhite, color.Italic)

	m := then.Month().String()
	mid := (width - len(m)) / 2
	tf.Printf("%s%s%s\n", strings.Repeat(" ", mid), m, strings.Repeat(" ", width-mid-len(m)))

	days := DaysIn(then)

	// Pad out the start of the month.
	for i := time.Sunday; i < d; i++ {
		fmt.Print("   ")
	}

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite)

	for i := 0; i < days; i++ {
		if i < len(count) && count[i] > 0 {
			l2.Printf("%2d ", i+1)
		} else {
			l1.Printf("%2d ", i+1)
		}

		d++
		if d > time.Saturday {
			d = time.Sunday
			fmt.Print("\n")
		}
	}
	fmt.Print("\n\n")
}

func NextMonth(then time.Time) time.Time {
	return time.Date(then.Year(), then.Month()+1, 1, 1, 0, 0, 0, then.Location())
}

func DaysIn(then time.Time) int {
	return time.Date(then.UTC().Year(), then.UTC().Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func StartDay(then time.Time) time.Weekday {
	return time.Date(then.UTC().Year(), then.UTC().Month(), 1, 1, 0, 0, 0, time.UTC).Weekday()
}
