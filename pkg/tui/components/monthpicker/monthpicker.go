// Package monthpicker renders the feed's month rail: every month that has
// posts, with the timeline cursor highlighted.
package monthpicker

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Options controls rail styling.
type Options struct {
	MonthStyle    lipgloss.Style
	CurrentStyle  lipgloss.Style
	YearStyle     lipgloss.Style
	ShowYearBreak bool
}

// DefaultOptions styles the rail with a highlighted cursor month.
func DefaultOptions() Options {
	return Options{
		MonthStyle:    lipgloss.NewStyle().Faint(true),
		CurrentStyle:  lipgloss.NewStyle().Bold(true).Underline(true),
		YearStyle:     lipgloss.NewStyle().Italic(true).Faint(true),
		ShowYearBreak: true,
	}
}

// Render produces a one-line-per-year rail of month abbreviations. Months
// equal current (year and month) render highlighted.
func Render(months []time.Time, current time.Time, hasCurrent bool, opts Options) string {
	if len(months) == 0 {
		return ""
	}

	var lines []string
	var cells []string
	year := months[0].Year()

	flush := func(y int) {
		if len(cells) == 0 {
			return
		}
		line := strings.Join(cells, " ")
		if opts.ShowYearBreak {
			line = opts.YearStyle.Render(strconv.Itoa(y)) + " " + line
		}
		lines = append(lines, line)
		cells = nil
	}

	for _, m := range months {
		if opts.ShowYearBreak && m.Year() != year {
			flush(year)
			year = m.Year()
		}
		style := opts.MonthStyle
		if hasCurrent && m.Year() == current.Year() && m.Month() == current.Month() {
			style = opts.CurrentStyle
		}
		cells = append(cells, style.Render(m.Month().String()[:3]))
	}
	flush(year)

	return strings.Join(lines, "\n")
}
