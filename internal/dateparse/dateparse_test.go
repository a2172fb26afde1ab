package dateparse

import (
	"errors"
	"testing"
	"time"

	"github.com/existflow/paperclip/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday
var monday = time.Date(2024, time.June, 10, 9, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
}

func TestParseDates(t *testing.T) {
	tests := []struct {
		name  string
		input string
		now   time.Time
		want  time.Time
	}{
		{name: "today", input: "today", now: monday, want: day(2024, 6, 10)},
		{name: "tomorrow", input: "tomorrow", now: monday, want: day(2024, 6, 11)},
		{name: "tomorrow short", input: "tom", now: monday, want: day(2024, 6, 11)},
		{name: "yesterday", input: "Yesterday", now: monday, want: day(2024, 6, 9)},
		{name: "end of day", input: "eod", now: monday, want: time.Date(2024, 6, 10, 17, 0, 0, 0, time.UTC)},
		{name: "endofday", input: "endofday", now: monday, want: time.Date(2024, 6, 10, 17, 0, 0, 0, time.UTC)},
		{name: "noon", input: "noon", now: monday, want: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)},

		{name: "bare weekday", input: "friday", now: monday, want: day(2024, 6, 14)},
		{name: "bare weekday short", input: "wed", now: monday, want: day(2024, 6, 12)},
		{name: "bare weekday equal to today", input: "monday", now: monday, want: day(2024, 6, 17)},
		{name: "next friday", input: "next friday", now: monday, want: day(2024, 6, 14)},
		{name: "next monday on monday", input: "next monday", now: monday, want: day(2024, 6, 17)},
		{name: "this friday", input: "this friday", now: monday, want: day(2024, 6, 14)},
		{name: "this monday on monday", input: "this monday", now: monday, want: day(2024, 6, 10)},
		{name: "this sunday ends week", input: "this sunday", now: monday, want: day(2024, 6, 16)},
		{name: "this monday from thursday", input: "this monday", now: day(2024, 6, 13), want: day(2024, 6, 10)},

		{name: "in 3 days", input: "in 3 days", now: monday, want: day(2024, 6, 13)},
		{name: "2 weeks", input: "2 weeks", now: monday, want: day(2024, 6, 24)},
		{name: "a week", input: "in a week", now: monday, want: day(2024, 6, 17)},
		{name: "1 day singular", input: "1 day", now: monday, want: day(2024, 6, 11)},
		{name: "month clamps", input: "in 1 month", now: day(2024, 1, 31), want: day(2024, 2, 29)},
		{name: "year clamps leap day", input: "1 year", now: day(2024, 2, 29), want: day(2025, 2, 28)},
		{name: "next week", input: "next week", now: monday, want: day(2024, 6, 17)},
		{name: "next month", input: "next month", now: monday, want: day(2024, 7, 10)},

		{name: "iso", input: "2024-07-04", now: monday, want: day(2024, 7, 4)},
		{name: "iso slash", input: "2024/07/04", now: monday, want: day(2024, 7, 4)},
		{name: "us slash", input: "07/04/2025", now: monday, want: day(2025, 7, 4)},
		{name: "day first slash", input: "25/12/2024", now: monday, want: day(2024, 12, 25)},
		{name: "us dash", input: "07-04-2025", now: monday, want: day(2025, 7, 4)},
		{name: "two digit year", input: "07-04-25", now: monday, want: day(2025, 7, 4)},
		{name: "two digit year day first", input: "25-12-24", now: monday, want: day(2024, 12, 25)},
		{name: "two digit year stays in this century", input: "12-31-99", now: monday, want: day(2099, 12, 31)},
		{name: "month day", input: "7/4", now: monday, want: day(2024, 7, 4)},
		{name: "month day passed", input: "1/15", now: monday, want: day(2025, 1, 15)},
		{name: "month name", input: "Jul 4", now: monday, want: day(2024, 7, 4)},
		{name: "full month name", input: "December 25", now: monday, want: day(2024, 12, 25)},
		{name: "month name with year", input: "Jan 2, 2026", now: monday, want: day(2026, 1, 2)},
		{name: "month name year no comma", input: "march 3 2027", now: monday, want: day(2027, 3, 3)},
		{name: "day before month", input: "4th july", now: monday, want: day(2024, 7, 4)},
		{name: "whitespace and case", input: "  NEXT   Friday ", now: monday, want: day(2024, 6, 14)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse(tt.input, tt.now)
			require.NoError(t, err)
			assert.Equal(t, KindDate, r.Kind)
			assert.True(t, tt.want.Equal(r.Due), "got %s, want %s", r.Due, tt.want)
		})
	}
}

func TestParseYearlessRollover(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{name: "before the date", now: day(2024, 12, 1), want: day(2024, 12, 25)},
		{name: "on the date", now: time.Date(2024, 12, 25, 8, 0, 0, 0, time.UTC), want: day(2024, 12, 25)},
		{name: "after the date", now: day(2024, 12, 26), want: day(2025, 12, 25)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse("Dec 25", tt.now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(r.Due), "got %s, want %s", r.Due, tt.want)
		})
	}
}

func TestParseRecurrence(t *testing.T) {
	tests := []struct {
		input string
		want  model.Recurrence
	}{
		{input: "daily", want: model.Recurrence{Kind: model.RecurDaily}},
		{input: "every day", want: model.Recurrence{Kind: model.RecurDaily}},
		{input: "weekly", want: model.Recurrence{Kind: model.RecurWeekly}},
		{input: "monthly", want: model.Recurrence{Kind: model.RecurMonthly}},
		{input: "annually", want: model.Recurrence{Kind: model.RecurYearly}},
		{input: "every 3 days", want: model.Recurrence{Kind: model.RecurCustom, Interval: 3}},
		{input: "every 2 weeks", want: model.Recurrence{Kind: model.RecurCustom, Interval: 14}},
		{input: "every 500 weeks", want: model.Recurrence{Kind: model.RecurCustom, Interval: 3500}},
		{input: "every 1 week", want: model.Recurrence{Kind: model.RecurWeekly}},
		{input: "every other day", want: model.Recurrence{Kind: model.RecurCustom, Interval: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, err := Parse(tt.input, monday)
			require.NoError(t, err)
			assert.Equal(t, KindRecurrence, r.Kind)
			assert.Equal(t, tt.want, r.Recurrence)
			assert.True(t, r.Due.IsZero())
		})
	}
}

func TestParseFailures(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"someday",
		"next",
		"in three days",
		"2024-02-30",
		"13/13/2024",
		"Feb 31",
		"every 0 days",
		"every 2000000000000000000 weeks",
		"every 2000000000000000000 days",
		"every 5300 weeks",
		"blursday",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in, monday)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnrecognized))

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, in, pe.Input)
		})
	}
}

func TestParseDateRejectsRecurrence(t *testing.T) {
	_, err := ParseDate("weekly", monday)
	assert.ErrorIs(t, err, ErrUnrecognized)

	due, err := ParseDate("tomorrow", monday)
	require.NoError(t, err)
	assert.True(t, day(2024, 6, 11).Equal(due))
}

func TestParseUsesNowLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	now := time.Date(2024, 6, 10, 1, 0, 0, 0, loc)
	r, err := Parse("today", now)
	require.NoError(t, err)
	assert.Equal(t, loc, r.Due.Location())
	assert.Equal(t, 10, r.Due.Day())
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		due  time.Time
		want string
	}{
		{due: day(2024, 6, 10), want: "today"},
		{due: day(2024, 6, 11), want: "tomorrow"},
		{due: day(2024, 6, 9), want: "yesterday"},
		{due: day(2024, 6, 14), want: "Fri"},
		{due: day(2024, 8, 1), want: "Aug 1"},
		{due: day(2025, 8, 1), want: "Aug 1 2025"},
		{due: time.Date(2024, 6, 10, 17, 0, 0, 0, time.UTC), want: "today 17:00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.due, monday))
		})
	}
}
