package dateparse

import (
	"fmt"
	"time"
)

// Describe renders a due date relative to now for compact display
func Describe(due, now time.Time) string {
	due = due.In(now.Location())
	days := DaysBetween(now, due)

	var label string
	switch {
	case days == 0:
		label = "today"
	case days == 1:
		label = "tomorrow"
	case days == -1:
		label = "yesterday"
	case days > 1 && days < 7:
		label = due.Format("Mon")
	case due.Year() == now.Year():
		label = due.Format("Jan 2")
	default:
		label = due.Format("Jan 2 2006")
	}

	if h, m, s := due.Clock(); !(h == 23 && m == 59 && s == 59) {
		label += fmt.Sprintf(" %02d:%02d", h, m)
	}
	return label
}

// DaysBetween counts calendar days from a to b, ignoring clock time and DST
func DaysBetween(a, b time.Time) int {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.In(a.Location()).Date()
	from := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	to := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
