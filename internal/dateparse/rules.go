package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/existflow/paperclip/internal/model"
)

// longest interval "every N days|weeks" accepts
const maxRepeatDays = 100 * 366

var (
	everyNRe    = regexp.MustCompile(`^every (\d+|other) (day|days|week|weeks)$`)
	relativeRe  = regexp.MustCompile(`^(?:in )?(\d+|an?) (day|days|week|weeks|month|months|year|years)$`)
	isoRe       = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})$`)
	fullYearRe  = regexp.MustCompile(`^(\d{1,2})([-/])(\d{1,2})[-/](\d{4})$`)
	shortYearRe = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{2})$`)
	monthDayRe  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})$`)
	nameFirstRe = regexp.MustCompile(`^([a-z]+)\.? (\d{1,2})(?:st|nd|rd|th)?(?:,? (\d{4}))?$`)
	dayFirstRe  = regexp.MustCompile(`^(\d{1,2})(?:st|nd|rd|th)? ([a-z]+)\.?(?:,? (\d{4}))?$`)
)

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

func parseRecurrence(s string, _ time.Time) (Result, bool) {
	rec := func(kind model.RecurrenceKind, interval int) (Result, bool) {
		return Result{Kind: KindRecurrence, Recurrence: model.Recurrence{Kind: kind, Interval: interval}}, true
	}
	switch s {
	case "daily", "every day":
		return rec(model.RecurDaily, 0)
	case "weekly", "every week":
		return rec(model.RecurWeekly, 0)
	case "monthly", "every month":
		return rec(model.RecurMonthly, 0)
	case "yearly", "annually", "every year":
		return rec(model.RecurYearly, 0)
	}
	m := everyNRe.FindStringSubmatch(s)
	if m == nil {
		return Result{}, false
	}
	n := 2
	if m[1] != "other" {
		var err error
		if n, err = strconv.Atoi(m[1]); err != nil || n <= 0 || n > maxRepeatDays {
			return Result{}, false
		}
	}
	if strings.HasPrefix(m[2], "week") {
		if n == 1 {
			return rec(model.RecurWeekly, 0)
		}
		if n > maxRepeatDays/7 {
			return Result{}, false
		}
		return rec(model.RecurCustom, n*7)
	}
	if n == 1 {
		return rec(model.RecurDaily, 0)
	}
	return rec(model.RecurCustom, n)
}

func parseKeyword(s string, now time.Time) (Result, bool) {
	switch s {
	case "today", "tod":
		return dateResult(EndOfDay(now))
	case "tomorrow", "tom", "tmrw":
		return dateResult(EndOfDay(now.AddDate(0, 0, 1)))
	case "yesterday":
		return dateResult(EndOfDay(now.AddDate(0, 0, -1)))
	case "eod", "endofday", "end of day":
		return dateResult(atTime(now, 17, 0))
	case "noon", "midday":
		return dateResult(atTime(now, 12, 0))
	}
	return Result{}, false
}

// parseWeekday resolves bare and "next" weekdays to the first occurrence
// strictly after today, and "this" weekdays to the day inside the current
// Monday-start week.
func parseWeekday(s string, now time.Time) (Result, bool) {
	mode, name := "", s
	if rest, ok := strings.CutPrefix(s, "next "); ok {
		mode, name = "next", rest
	} else if rest, ok := strings.CutPrefix(s, "this "); ok {
		mode, name = "this", rest
	}
	wd, ok := weekdays[name]
	if !ok {
		return Result{}, false
	}

	if mode == "this" {
		offset := mondayIndex(wd) - mondayIndex(now.Weekday())
		return dateResult(EndOfDay(now.AddDate(0, 0, offset)))
	}
	days := (int(wd) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return dateResult(EndOfDay(now.AddDate(0, 0, days)))
}

func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func parseRelative(s string, now time.Time) (Result, bool) {
	switch s {
	case "next week":
		return dateResult(EndOfDay(now.AddDate(0, 0, 7)))
	case "next month":
		return dateResult(EndOfDay(model.AddMonths(now, 1)))
	case "next year":
		return dateResult(EndOfDay(model.AddMonths(now, 12)))
	}

	m := relativeRe.FindStringSubmatch(s)
	if m == nil {
		return Result{}, false
	}
	n := 1
	if m[1] != "a" && m[1] != "an" {
		var err error
		if n, err = strconv.Atoi(m[1]); err != nil {
			return Result{}, false
		}
	}
	return dateResult(EndOfDay(AddUnits(now, n, strings.TrimSuffix(m[2], "s"))))
}

// AddUnits adds n days, weeks, months or years. Month and year steps clamp
// the day of month to the target month's length.
func AddUnits(t time.Time, n int, unit string) time.Time {
	switch unit {
	case "day":
		return t.AddDate(0, 0, n)
	case "week":
		return t.AddDate(0, 0, 7*n)
	case "month":
		return model.AddMonths(t, n)
	case "year":
		return model.AddMonths(t, 12*n)
	}
	return t
}

func parseCalendar(s string, now time.Time) (Result, bool) {
	if m := isoRe.FindStringSubmatch(s); m != nil {
		return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]), now)
	}
	if m := fullYearRe.FindStringSubmatch(s); m != nil {
		month, day := swapIfDayFirst(atoi(m[1]), atoi(m[3]))
		return makeDate(atoi(m[4]), month, day, now)
	}
	if m := shortYearRe.FindStringSubmatch(s); m != nil {
		month, day := swapIfDayFirst(atoi(m[1]), atoi(m[2]))
		// two-digit years are always in the 2000s
		return makeDate(2000+atoi(m[3]), month, day, now)
	}
	if m := monthDayRe.FindStringSubmatch(s); m != nil {
		month, day := swapIfDayFirst(atoi(m[1]), atoi(m[2]))
		return yearless(month, day, now)
	}
	if m := nameFirstRe.FindStringSubmatch(s); m != nil {
		return namedDate(m[1], m[2], m[3], now)
	}
	if m := dayFirstRe.FindStringSubmatch(s); m != nil {
		return namedDate(m[2], m[1], m[3], now)
	}
	return Result{}, false
}

func namedDate(monthName, day, year string, now time.Time) (Result, bool) {
	month, ok := months[monthName]
	if !ok {
		return Result{}, false
	}
	if year == "" {
		return yearless(int(month), atoi(day), now)
	}
	return makeDate(atoi(year), int(month), atoi(day), now)
}

// yearless resolves a month/day in the current year, moving to next year
// only when that day is strictly before today
func yearless(month, day int, now time.Time) (Result, bool) {
	r, ok := makeDate(now.Year(), month, day, now)
	if !ok {
		return Result{}, false
	}
	if r.Due.Before(StartOfDay(now)) {
		return makeDate(now.Year()+1, month, day, now)
	}
	return r, true
}

func makeDate(year, month, day int, now time.Time) (Result, bool) {
	if month < 1 || month > 12 || day < 1 || day > model.DaysIn(year, time.Month(month)) {
		return Result{}, false
	}
	return dateResult(time.Date(year, time.Month(month), day, 23, 59, 59, 0, now.Location()))
}

// swapIfDayFirst treats a leading field above 12 as the day
func swapIfDayFirst(first, second int) (month, day int) {
	if first > 12 {
		return second, first
	}
	return first, second
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
