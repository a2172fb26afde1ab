// Package dateparse turns short natural-language phrases into due dates or
// recurrence rules. Every computation is relative to a caller-supplied now.
package dateparse

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/existflow/paperclip/internal/model"
)

// ErrUnrecognized is returned (wrapped in *ParseError) for any text that
// matches none of the known forms
var ErrUnrecognized = errors.New("unrecognized date expression")

// ParseError reports the text that could not be parsed
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot understand date %q", e.Input)
}

func (e *ParseError) Unwrap() error {
	return ErrUnrecognized
}

// Kind tells which field of a Result is set
type Kind int

const (
	KindDate Kind = iota
	KindRecurrence
)

// Result is either an absolute due date or a recurrence rule
type Result struct {
	Kind       Kind
	Due        time.Time
	Recurrence model.Recurrence
}

type parser func(s string, now time.Time) (Result, bool)

// Evaluated in order; first match wins
var parsers = []parser{
	parseRecurrence,
	parseKeyword,
	parseWeekday,
	parseRelative,
	parseCalendar,
}

// Parse interprets text against now. Matching is case-insensitive and
// ignores repeated whitespace. Dates resolve to 23:59:59 of the target day in
// now's location unless the phrase names a time of day.
func Parse(text string, now time.Time) (Result, error) {
	s := normalize(text)
	if s == "" {
		return Result{}, &ParseError{Input: text}
	}
	for _, p := range parsers {
		if r, ok := p(s, now); ok {
			return r, nil
		}
	}
	return Result{}, &ParseError{Input: text}
}

// ParseDate is Parse restricted to absolute dates
func ParseDate(text string, now time.Time) (time.Time, error) {
	r, err := Parse(text, now)
	if err != nil {
		return time.Time{}, err
	}
	if r.Kind != KindDate {
		return time.Time{}, &ParseError{Input: text}
	}
	return r.Due, nil
}

func normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func dateResult(t time.Time) (Result, bool) {
	return Result{Kind: KindDate, Due: t}, true
}

// EndOfDay returns 23:59:59 on t's calendar day
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// StartOfDay returns midnight on t's calendar day
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func atTime(t time.Time, hour, minute int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, t.Location())
}
