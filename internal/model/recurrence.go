package model

import (
	"fmt"
	"time"
)

// RecurrenceKind names how a recurring todo repeats
type RecurrenceKind string

const (
	RecurNone    RecurrenceKind = "none"
	RecurDaily   RecurrenceKind = "daily"
	RecurWeekly  RecurrenceKind = "weekly"
	RecurMonthly RecurrenceKind = "monthly"
	RecurYearly  RecurrenceKind = "yearly"
	RecurCustom  RecurrenceKind = "custom" // every Interval days
)

// Recurrence is the rule that regenerates a completed todo
type Recurrence struct {
	Kind     RecurrenceKind `json:"kind"`
	Interval int            `json:"interval,omitempty"`
}

// RecurrenceKinds lists the selectable kinds in display order
func RecurrenceKinds() []RecurrenceKind {
	return []RecurrenceKind{RecurNone, RecurDaily, RecurWeekly, RecurMonthly, RecurYearly, RecurCustom}
}

// IsValid returns true for a known kind with a usable interval
func (r Recurrence) IsValid() bool {
	switch r.Kind {
	case RecurNone, RecurDaily, RecurWeekly, RecurMonthly, RecurYearly:
		return r.Interval >= 0
	case RecurCustom:
		return r.Interval > 0
	default:
		return false
	}
}

// String returns a short human label
func (r Recurrence) String() string {
	switch r.Kind {
	case RecurDaily:
		return "Daily"
	case RecurWeekly:
		return "Weekly"
	case RecurMonthly:
		return "Monthly"
	case RecurYearly:
		return "Yearly"
	case RecurCustom:
		return fmt.Sprintf("Every %d days", r.Interval)
	default:
		return "None"
	}
}

// Next returns the occurrence following due, or false for RecurNone
func (r Recurrence) Next(due time.Time) (time.Time, bool) {
	switch r.Kind {
	case RecurDaily:
		return due.AddDate(0, 0, 1), true
	case RecurWeekly:
		return due.AddDate(0, 0, 7), true
	case RecurMonthly:
		return AddMonths(due, 1), true
	case RecurYearly:
		return AddMonths(due, 12), true
	case RecurCustom:
		if r.Interval <= 0 {
			return time.Time{}, false
		}
		return due.AddDate(0, 0, r.Interval), true
	default:
		return time.Time{}, false
	}
}

// AddMonths adds n calendar months keeping the day of month when the target
// month has it and clamping to the month's last day otherwise.
// time.AddDate normalizes Jan 31 + 1 month to Mar 2/3, which is not wanted here.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := DaysIn(first.Year(), first.Month())
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// DaysIn returns the number of days in the month
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
